package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leofalp/agentils/core/config"
	"github.com/leofalp/agentils/core/llm"
	"github.com/leofalp/agentils/internal/utils"
	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/observability"
	"github.com/leofalp/agentils/providers/observability/promobs"
	"github.com/leofalp/agentils/providers/observability/slogobs"
	"github.com/leofalp/agentils/providers/tool"
	"github.com/leofalp/agentils/providers/tool/calculator"
	"github.com/leofalp/agentils/providers/tool/webfetch"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const usage = `usage: agentils <command> [flags]

commands:
  run [flags] <prompt | ->   send one prompt ("-" reads it from stdin)
  chat [flags]               start an interactive session
  version                    print the version
`

type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	// factory overrides the Gemini backend.
	factory ai.ClientFactory
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Fprintf(a.stdout, "agentils %s\n", version)
		return 0
	case "run":
		err = a.runPrompt(ctx, args[1:])
	case "chat":
		err = a.chat(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(a.stderr, "agentils: %v\n", err)
		return 1
	}
	return 0
}

// commonFlags are shared by run and chat.
type commonFlags struct {
	configPath  string
	model       string
	system      string
	temperature float64
	maxTokens   int
	tools       string
	maxCalls    int
	noAuto      bool
	logLevel    string
	logFormat   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML or TOML config file")
	fs.StringVar(&c.model, "model", "", "model identifier (default "+llm.DefaultModel+")")
	fs.StringVar(&c.system, "system", "", "system instruction")
	fs.Float64Var(&c.temperature, "temperature", 0, "sampling temperature")
	fs.IntVar(&c.maxTokens, "max-tokens", 0, "maximum output tokens")
	fs.StringVar(&c.tools, "tools", "", "comma-separated built-in tools: "+strings.Join(toolNames(), ","))
	fs.IntVar(&c.maxCalls, "max-function-calls", 0, "cap on automatic function-calling round trips")
	fs.BoolVar(&c.noAuto, "no-auto-calls", false, "return function calls instead of running them")
	fs.StringVar(&c.logLevel, "log-level", "", "trace, debug, info, warn or error")
	fs.StringVar(&c.logFormat, "log-format", "", "compact or json")
}

// options merges the config file with the flags; flags that were set
// explicitly win.
func (c *commonFlags) options(fs *flag.FlagSet, logOut io.Writer) ([]llm.Option, observability.Provider, error) {
	cfg := &config.Config{}
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if c.model != "" {
		cfg.Model = c.model
	}
	if c.system != "" {
		cfg.SystemInstruction = c.system
	}
	if set["temperature"] {
		cfg.Temperature = &c.temperature
	}
	if set["max-tokens"] {
		cfg.MaxOutputTokens = &c.maxTokens
	}
	if set["max-function-calls"] {
		cfg.MaxFunctionCalls = &c.maxCalls
	}
	if c.noAuto {
		cfg.AutomaticFunctionCalling = utils.Ptr(false)
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	tools, err := selectTools(c.tools)
	if err != nil {
		return nil, nil, err
	}

	observer := slogobs.New(append(cfg.LogOptions(), slogobs.WithOutput(logOut))...)
	opts := cfg.Options()
	if len(tools) > 0 {
		opts = append(opts, llm.WithTools(tools...))
	}
	return opts, observer, nil
}

var builtinTools = map[string]func() tool.Tool{
	calculator.Name: func() tool.Tool { return calculator.New() },
	webfetch.Name:   func() tool.Tool { return webfetch.New(nil) },
}

func toolNames() []string {
	return []string{calculator.Name, webfetch.Name}
}

func selectTools(list string) ([]tool.Tool, error) {
	var tools []tool.Tool
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		build, ok := builtinTools[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool %q (available: %s)", name, strings.Join(toolNames(), ", "))
		}
		tools = append(tools, build())
	}
	return tools, nil
}

func (a *app) backend() []llm.Option {
	if a.factory == nil {
		return nil
	}
	return []llm.Option{llm.WithClientFactory(a.factory)}
}

func (a *app) runPrompt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("agentils run", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var common commonFlags
	common.register(fs)
	output := fs.String("output", "", "text or structured (default structured)")
	lenient := fs.Bool("lenient", false, "repair malformed JSON answers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prompt, err := a.readPrompt(fs.Args())
	if err != nil {
		return err
	}

	opts, observer, err := common.options(fs, a.stderr)
	if err != nil {
		return err
	}
	if *output != "" {
		mode, err := ai.ParseOutputMode(*output)
		if err != nil {
			return err
		}
		opts = append(opts, llm.WithOutput(mode))
	}
	if *lenient {
		opts = append(opts, llm.WithLenientParsing())
	}
	opts = append(opts, llm.WithObserver(observer))
	opts = append(opts, a.backend()...)

	resp, err := llm.Execute(ctx, func(context.Context) (string, error) { return prompt, nil }, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, resp.String())
	for _, call := range resp.FunctionCalls {
		fmt.Fprintf(a.stderr, "pending function call: %s %v\n", call.Name, call.Args)
	}
	if resp.Failed() {
		return errors.New("model call failed")
	}
	return nil
}

func (a *app) readPrompt(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		args = []string{string(data)}
	}
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return "", errors.New("missing prompt")
	}
	return prompt, nil
}

func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("agentils chat", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var common commonFlags
	common.register(fs)
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts, observer, err := common.options(fs, a.stderr)
	if err != nil {
		return err
	}
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		observer = promobs.New(reg, observer)
		stop := serveMetrics(*metricsAddr, reg)
		defer stop()
	}
	opts = append(opts, llm.WithObserver(observer))
	opts = append(opts, a.backend()...)

	session, err := llm.CreateChatSession(ctx, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Chat started. /history shows the conversation, /exit quits.")
	scanner := bufio.NewScanner(a.stdin)
	for {
		fmt.Fprint(a.stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.stdout)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/history":
			for _, m := range session.History() {
				fmt.Fprintf(a.stdout, "[%s] %s\n", m.Role, m.Text)
			}
			continue
		}

		resp, err := session.SendMessage(ctx, line)
		if err != nil {
			fmt.Fprintf(a.stderr, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(a.stdout, resp.Text)
		for _, call := range resp.FunctionCalls {
			fmt.Fprintf(a.stdout, "(function call: %s %v)\n", call.Name, call.Args)
		}
	}
}

// serveMetrics exposes reg on addr until the returned stop function runs.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
