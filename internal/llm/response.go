package llm

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// ResponseText joins the text parts of the first candidate
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	content, err := firstContent(resp)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}

// FunctionCalls returns the function calls requested by the first candidate,
// in the order the model emitted them
func FunctionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	content, err := firstContent(resp)
	if err != nil {
		return nil
	}

	var calls []genai.FunctionCall
	for _, part := range content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func firstContent(resp *genai.GenerateContentResponse) (*genai.Content, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}
	return candidate.Content, nil
}
