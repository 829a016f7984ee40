package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/leofalp/agentils/internal/jsonschema"
	"github.com/leofalp/agentils/internal/utils"
	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/tool"
)

// toGenerateContentConfig forwards only the fields set in cfg. A zero
// config yields nil so that the SDK defaults apply.
func toGenerateContentConfig(cfg *ai.RequestConfig) (*genai.GenerateContentConfig, error) {
	if cfg.IsZero() {
		return nil, nil
	}

	out := &genai.GenerateContentConfig{}
	if cfg.SystemInstruction != "" {
		out.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if cfg.Temperature != nil {
		out.Temperature = utils.Ptr(float32(*cfg.Temperature))
	}
	// The SDK field is a plain int32 with omitempty: an explicit 0 is not
	// sent and the model default applies.
	if cfg.MaxOutputTokens != nil {
		out.MaxOutputTokens = int32(*cfg.MaxOutputTokens)
	}
	out.ResponseMIMEType = cfg.Output.MIMEType()

	if len(cfg.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(cfg.Tools))
		for _, d := range tool.Descriptors(cfg.Tools) {
			decl, err := toFunctionDeclaration(d)
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		}
		out.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return out, nil
}

func toFunctionDeclaration(d tool.Descriptor) (*genai.FunctionDeclaration, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("tool declaration without a name")
	}
	decl := &genai.FunctionDeclaration{Name: d.Name, Description: d.Description}
	if d.Parameters != nil {
		decl.Parameters = toSchema(d.Parameters)
	}
	return decl, nil
}

var schemaTypes = map[string]genai.Type{
	jsonschema.TypeString:  genai.TypeString,
	jsonschema.TypeInteger: genai.TypeInteger,
	jsonschema.TypeNumber:  genai.TypeNumber,
	jsonschema.TypeBoolean: genai.TypeBoolean,
	jsonschema.TypeArray:   genai.TypeArray,
	jsonschema.TypeObject:  genai.TypeObject,
}

// toSchema converts a JSON schema to the SDK's OpenAPI subset. Unknown
// types fall back to string.
func toSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	t, ok := schemaTypes[strings.ToLower(s.Type)]
	if !ok {
		t = genai.TypeString
	}

	out := &genai.Schema{
		Type:        t,
		Description: s.Description,
		Default:     s.Default,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
		out.PropertyOrdering = append([]string(nil), s.Order...)
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out.Items = toSchema(s.Items)
	}
	for _, e := range s.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(e))
	}
	if len(out.Enum) > 0 && t == genai.TypeString {
		out.Format = "enum"
	}
	return out
}

func firstCandidate(resp *genai.GenerateContentResponse) *genai.Candidate {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0]
}

// fromResponse maps the first candidate. Thought parts are not part of
// the answer text.
func fromResponse(resp *genai.GenerateContentResponse) *ai.Response {
	out := &ai.Response{}
	if resp == nil {
		return out
	}

	if cand := firstCandidate(resp); cand != nil {
		out.FinishReason = string(cand.FinishReason)
		if cand.Content != nil {
			var text strings.Builder
			for _, p := range cand.Content.Parts {
				if p == nil {
					continue
				}
				if p.Text != "" && !p.Thought {
					text.WriteString(p.Text)
				}
				if p.FunctionCall != nil {
					out.FunctionCalls = append(out.FunctionCalls, ai.FunctionCall{
						ID:   p.FunctionCall.ID,
						Name: p.FunctionCall.Name,
						Args: p.FunctionCall.Args,
					})
				}
			}
			out.Text = text.String()
		}
	}

	if u := resp.UsageMetadata; u != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
			CachedTokens:     int(u.CachedContentTokenCount),
		}
	}
	return out
}

// fromContents maps SDK history to ai messages.
func fromContents(contents []*genai.Content) []ai.Message {
	out := make([]ai.Message, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		msg := ai.Message{Role: ai.RoleUser}
		if c.Role == string(genai.RoleModel) {
			msg.Role = ai.RoleModel
		}
		var text strings.Builder
		for _, p := range c.Parts {
			switch {
			case p == nil:
			case p.FunctionCall != nil:
				msg.FunctionCalls = append(msg.FunctionCalls, ai.FunctionCall{ID: p.FunctionCall.ID, Name: p.FunctionCall.Name, Args: p.FunctionCall.Args})
			case p.FunctionResponse != nil:
				msg.FunctionResults = append(msg.FunctionResults, ai.FunctionResult{ID: p.FunctionResponse.ID, Name: p.FunctionResponse.Name, Response: p.FunctionResponse.Response})
			case !p.Thought:
				text.WriteString(p.Text)
			}
		}
		msg.Text = text.String()
		out = append(out, msg)
	}
	return out
}
