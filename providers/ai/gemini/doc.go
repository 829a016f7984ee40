// Package gemini implements [ai.Client] over the google.golang.org/genai SDK.
//
// Requests are converted from [ai.RequestConfig] into
// genai.GenerateContentConfig. The genai Go SDK does not run tools by
// itself, so automatic function calling happens here: while the model
// answers with function calls, every tool is callable and the call budget
// is not spent, the tools are executed and their results sent back as
// function responses. Otherwise the function calls are returned to the
// caller in [ai.Response.FunctionCalls].
//
// Chat sessions wrap genai chats, so the conversation history lives in
// the SDK session and the same function-call loop applies to each turn.
package gemini
