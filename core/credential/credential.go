// Package credential resolves the API key used to authenticate against the
// model backend. Resolution is explicit: an override value first, then an
// ordered list of [Source]s, the first non-empty value winning.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted by [DefaultSources], in preference order.
const (
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// ErrMissingCredential is returned when neither the explicit value nor any
// source yields a key. It is fatal: no request may be sent without a key.
var ErrMissingCredential = errors.New("API key required")

// Source looks up a credential. Lookup returns "" when the source has no
// value; an error is reserved for sources that exist but cannot be read.
type Source interface {
	Name() string
	Lookup() (string, error)
}

type envSource string

// Env returns a Source reading the named process environment variable.
func Env(name string) Source {
	return envSource(name)
}

func (e envSource) Name() string {
	return string(e)
}

func (e envSource) Lookup() (string, error) {
	return os.Getenv(string(e)), nil
}

type dotEnvSource struct {
	path string
	keys []string
}

// DotEnv returns a Source reading the given keys, in order, from a .env file
// without touching the process environment. A missing file is not an error.
func DotEnv(path string, keys ...string) Source {
	if len(keys) == 0 {
		keys = []string{EnvGoogleAPIKey, EnvGeminiAPIKey}
	}
	return dotEnvSource{path: path, keys: keys}
}

func (d dotEnvSource) Name() string {
	return d.path
}

func (d dotEnvSource) Lookup() (string, error) {
	values, err := godotenv.Read(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", d.path, err)
	}
	for _, key := range d.keys {
		if v := strings.TrimSpace(values[key]); v != "" {
			return v, nil
		}
	}
	return "", nil
}

// DefaultSources returns the lookup chain used when the caller configures
// none: GOOGLE_API_KEY, then GEMINI_API_KEY.
func DefaultSources() []Source {
	return []Source{Env(EnvGoogleAPIKey), Env(EnvGeminiAPIKey)}
}

// Resolve returns explicit when it is non-empty, otherwise the first
// non-empty value found in sources. With no sources, [DefaultSources] is
// used. The returned error wraps [ErrMissingCredential] when nothing is
// found.
func Resolve(explicit string, sources ...Source) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if len(sources) == 0 {
		sources = DefaultSources()
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		v, err := src.Lookup()
		if err != nil {
			return "", fmt.Errorf("credential source %s: %w", src.Name(), err)
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
		names = append(names, src.Name())
	}

	return "", fmt.Errorf("%w. Set %s or pass an explicit API key", ErrMissingCredential, strings.Join(names, " or "))
}
