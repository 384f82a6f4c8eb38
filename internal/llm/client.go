package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ChatSession is a multi-turn conversation with a model
type ChatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	// History returns the turns exchanged so far, including this session's
	History() []*genai.Content
}

// ChatRequest configures a new chat session
type ChatRequest struct {
	Tier              ModelTier
	SystemInstruction string
	Functions         []*genai.FunctionDeclaration
	History           []*genai.Content
}

// Client is an abstraction over LLM providers
type Client interface {
	// StartChat opens a chat session seeded with prior history
	StartChat(req ChatRequest) (ChatSession, error)
	// GetModel returns the provider model name for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// StartChat opens a chat session on the model configured for req.Tier
func (c *GeminiClient) StartChat(req ChatRequest) (ChatSession, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}
	if len(req.Functions) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: req.Functions}}
	}

	cs := model.StartChat()
	cs.History = append([]*genai.Content(nil), req.History...)
	return &geminiChat{cs: cs}, nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

type geminiChat struct {
	cs *genai.ChatSession
}

func (g *geminiChat) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	resp, err := g.cs.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return resp, nil
}

func (g *geminiChat) History() []*genai.Content {
	return g.cs.History
}
