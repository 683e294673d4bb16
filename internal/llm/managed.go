package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// claudeMaxTokens is the provider-level ceiling; per-request budgets are
// passed as call options and stay well below it.
const claudeMaxTokens = 1024

// ManagedConfig selects the hosted provider and model backing a
// ManagedBackend instance.
type ManagedConfig struct {
	ProviderID string // "openai" | "anthropic" | "gemini"
	APIName    string
	APIKey     string
}

// ManagedBackend generates text through a hosted chat-model provider. Its
// availability depends on environment eligibility (configured API key, enabled
// model), outside this package's control.
type ManagedBackend struct {
	chatModel  model.BaseChatModel
	providerID string
	apiName    string
}

func NewManagedBackend(ctx context.Context, cfg ManagedConfig) (*ManagedBackend, error) {
	providerID := strings.TrimSpace(cfg.ProviderID)
	if providerID == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key for %s is not configured", providerID)
	}
	if strings.TrimSpace(cfg.APIName) == "" {
		return nil, fmt.Errorf("model name is required")
	}

	var (
		chatModel model.BaseChatModel
		createErr error
	)
	switch providerID {
	case "openai":
		chatModel, createErr = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.APIName,
		})
	case "anthropic":
		chatModel, createErr = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.APIName,
			MaxTokens: claudeMaxTokens,
		})
	case "gemini":
		var client *genai.Client
		client, createErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if createErr == nil {
			chatModel, createErr = gemini.NewChatModel(ctx, &gemini.Config{
				Client: client,
				Model:  cfg.APIName,
			})
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerID)
	}
	if createErr != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", providerID, createErr)
	}

	return &ManagedBackend{
		chatModel:  chatModel,
		providerID: providerID,
		apiName:    cfg.APIName,
	}, nil
}

func (b *ManagedBackend) Kind() BackendKind {
	return BackendManaged
}

// Provider reports which hosted provider backs this instance.
func (b *ManagedBackend) Provider() string {
	return b.providerID
}

func (b *ManagedBackend) Generate(ctx context.Context, req GenerateRequest, onChunk func(cumulative string)) (string, error) {
	text, err := streamChat(ctx, b.chatModel, req, onChunk)
	if err != nil {
		return "", &BackendError{
			Backend: BackendManaged,
			Reason:  fmt.Sprintf("%s request failed", b.providerID),
			Err:     err,
		}
	}
	return text, nil
}
