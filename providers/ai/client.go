package ai

import "context"

// Client is a model backend.
type Client interface {
	// GenerateContent sends prompt to model. When the config carries
	// callable tools and automatic function calling is enabled, the
	// backend runs the function-call loop before returning.
	GenerateContent(ctx context.Context, model, prompt string, cfg *RequestConfig) (*Response, error)

	// CreateChat opens a session whose history lives in the backend.
	CreateChat(ctx context.Context, model string, cfg *RequestConfig) (ChatSession, error)
}

// ChatSession is a multi-turn conversation.
type ChatSession interface {
	// SendMessage appends text as a user turn and returns the model reply.
	SendMessage(ctx context.Context, text string) (*Response, error)

	// History returns a copy of the turns so far.
	History() []Message
}

// ClientFactory builds a client for one invocation. The adapter calls it
// once per call, after the credential has been resolved.
type ClientFactory func(ctx context.Context, apiKey string) (Client, error)
