package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/leofalp/agentils/providers/ai"
)

// stubClient answers every prompt with a fixed text and records the configs.
type stubClient struct {
	mu      sync.Mutex
	text    string
	prompts []string
	configs []*ai.RequestConfig
}

func (s *stubClient) GenerateContent(_ context.Context, _ string, prompt string, cfg *ai.RequestConfig) (*ai.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	s.configs = append(s.configs, cfg)
	return &ai.Response{Text: s.text, RemoteCalls: 1}, nil
}

func (s *stubClient) CreateChat(_ context.Context, _ string, cfg *ai.RequestConfig) (ai.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = append(s.configs, cfg)
	return &stubSession{}, nil
}

type stubSession struct {
	history []ai.Message
}

func (s *stubSession) SendMessage(_ context.Context, text string) (*ai.Response, error) {
	reply := "echo: " + text
	s.history = append(s.history, ai.Message{Role: ai.RoleUser, Text: text}, ai.Message{Role: ai.RoleModel, Text: reply})
	return &ai.Response{Text: reply}, nil
}

func (s *stubSession) History() []ai.Message {
	return append([]ai.Message(nil), s.history...)
}

func newTestApp(t *testing.T, client *stubClient, stdin string) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "test-key")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	a := &app{
		stdin:  strings.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
		factory: func(context.Context, string) (ai.Client, error) {
			return client, nil
		},
	}
	return a, stdout, stderr
}

// TestRun_Commands tests exit codes for the top-level commands
func TestRun_Commands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{name: "no args", args: nil, wantCode: 2},
		{name: "unknown", args: []string{"explode"}, wantCode: 2},
		{name: "version", args: []string{"version"}, wantCode: 0, wantOut: "agentils dev"},
		{name: "help", args: []string{"help"}, wantCode: 0, wantOut: "usage: agentils"},
		{name: "missing prompt", args: []string{"run"}, wantCode: 1},
		{name: "unknown tool", args: []string{"run", "-tools", "teleport", "hi"}, wantCode: 1},
		{name: "bad output", args: []string{"run", "-output", "xml", "hi"}, wantCode: 1},
		{name: "temperature out of range", args: []string{"run", "-temperature", "3", "hi"}, wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, stdout, _ := newTestApp(t, &stubClient{text: "ok"}, "")
			code := a.run(context.Background(), tt.args)
			if code != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if tt.wantOut != "" && !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantOut)
			}
		})
	}
}

// TestRunPrompt_Text tests a text-mode prompt passed as arguments
func TestRunPrompt_Text(t *testing.T) {
	client := &stubClient{text: "Lisbon is sunny."}
	a, stdout, stderr := newTestApp(t, client, "")

	code := a.run(context.Background(), []string{"run", "-output", "text", "-temperature", "0", "Describe", "Lisbon"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "Lisbon is sunny." {
		t.Errorf("stdout = %q", got)
	}
	if len(client.prompts) != 1 || client.prompts[0] != "Describe Lisbon" {
		t.Fatalf("prompts = %v", client.prompts)
	}
	cfg := client.configs[0]
	if cfg == nil || cfg.Temperature == nil || *cfg.Temperature != 0 {
		t.Errorf("temperature 0 was not forwarded: %+v", cfg)
	}
}

// TestRunPrompt_StructuredFromStdin tests reading the prompt from stdin and
// pretty-printing the parsed answer
func TestRunPrompt_StructuredFromStdin(t *testing.T) {
	client := &stubClient{text: "```json\n{\"city\": \"Porto\"}\n```"}
	a, stdout, stderr := newTestApp(t, client, "Plan a day in Porto\n")

	code := a.run(context.Background(), []string{"run", "-"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if client.prompts[0] != "Plan a day in Porto" {
		t.Errorf("prompt = %q", client.prompts[0])
	}
	if !strings.Contains(stdout.String(), `"city": "Porto"`) {
		t.Errorf("stdout = %q, want indented JSON", stdout.String())
	}
}

// TestRunPrompt_FailedAnswer tests that an unparseable structured answer
// exits non-zero
func TestRunPrompt_FailedAnswer(t *testing.T) {
	a, stdout, _ := newTestApp(t, &stubClient{text: "not json at all"}, "")

	if code := a.run(context.Background(), []string{"run", "hello"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout.String(), "Invalid string format") {
		t.Errorf("stdout = %q, want the parse error", stdout.String())
	}
}

// TestSelectTools tests the built-in tool lookup
func TestSelectTools(t *testing.T) {
	tools, err := selectTools(" calculate , fetch_url,")
	if err != nil {
		t.Fatalf("selectTools: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("got %d tools, want 2", len(tools))
	}
	if got := tools[0].Declaration().Name; got != "calculate" {
		t.Errorf("first tool = %q", got)
	}

	if tools, err := selectTools(""); err != nil || len(tools) != 0 {
		t.Errorf("empty list = %v, %v", tools, err)
	}
	if _, err := selectTools("calculator"); err == nil {
		t.Error("selectTools(calculator) succeeded, want an unknown tool error")
	}
}

// TestToolNamesSelectable verifies that every advertised tool name, as used
// in the -tools flag help and the command documentation, is accepted.
func TestToolNamesSelectable(t *testing.T) {
	names := toolNames()
	tools, err := selectTools(strings.Join(names, ","))
	if err != nil {
		t.Fatalf("selectTools(%v) error = %v", names, err)
	}
	for i, tl := range tools {
		if got := tl.Declaration().Name; got != names[i] {
			t.Errorf("tool %d = %q, want %q", i, got, names[i])
		}
	}
}

// TestRunMain tests the process entry point without os.Exit.
func TestRunMain(t *testing.T) {
	if code := runMain([]string{"version"}); code != 0 {
		t.Errorf("runMain(version) = %d, want 0", code)
	}
	if code := runMain(nil); code != 2 {
		t.Errorf("runMain() = %d, want 2", code)
	}
}

// TestChat tests the REPL loop including history and exit commands
func TestChat(t *testing.T) {
	input := "hello\n\n/history\n/exit\nignored\n"
	a, stdout, stderr := newTestApp(t, &stubClient{}, input)

	code := a.run(context.Background(), []string{"chat", "-system", "be brief"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"echo: hello", "[user] hello", "[model] echo: hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ignored") {
		t.Error("input after /exit was processed")
	}
}
