// Command agentils sends prompts to Gemini from the shell.
//
//	agentils run -output text "Describe Lisbon in one sentence"
//	echo '{"city": "Porto"}' | agentils run -system "Return a JSON itinerary" -
//	agentils chat -tools calculate,fetch_url -metrics-addr :9090
//	agentils version
//
// The API key is read from GOOGLE_API_KEY or GEMINI_API_KEY; a .env file in
// the working directory is loaded first.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain returns the exit code so that deferred cleanup runs before
// os.Exit.
func runMain(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	return a.run(ctx, args)
}
