// Package llm turns a prompt-producing function into a model call.
//
// [Wrap] takes a function that builds a prompt and returns a function that,
// on every invocation, resolves the API key, creates a backend client,
// builds the prompt, assembles the request configuration from the options
// and sends it. The answer comes back as a [Response]: raw text, or a
// mapping parsed from the model's JSON in structured mode.
//
// Backend failures never surface as Go errors. They are carried in the
// response and rendered the way callers of the mapping/text contract expect:
// {"error": "Error executing LLM: ..."} in structured mode and the bare
// message in text mode. Only a missing credential and errors of the prompt
// function itself are returned as errors.
//
//	type tripInput struct{ City string }
//
//	plan := llm.Wrap(func(ctx context.Context, in tripInput) (string, error) {
//	    return "Plan a weekend in " + in.City + " as JSON.", nil
//	}, llm.WithTemperature(0.2))
//
//	resp, err := plan(ctx, tripInput{City: "Lisbon"})
//	if err != nil {
//	    return err // no API key, or the prompt function failed
//	}
//	fmt.Println(resp.Value())
package llm
