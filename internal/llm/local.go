package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

const defaultLocalBaseURL = "http://127.0.0.1:8080/v1"

// LocalConfig describes the in-host inference server the local backend talks
// to over its OpenAI-compatible API.
type LocalConfig struct {
	BaseURL   string
	ModelName string
}

// LocalBackend generates text against a local inference server. It is always
// available once the model weights are present; readiness is owned by the
// WeightsManager shared process-wide.
type LocalBackend struct {
	chatModel model.BaseChatModel
	weights   *WeightsManager
	modelName string
}

func NewLocalBackend(ctx context.Context, cfg LocalConfig, weights *WeightsManager) (*LocalBackend, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultLocalBaseURL
	}
	modelName := strings.TrimSpace(cfg.ModelName)
	if modelName == "" {
		return nil, fmt.Errorf("local model name is required")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  "local", // the local server ignores credentials but the client requires one
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create local client: %w", err)
	}

	return &LocalBackend{
		chatModel: chatModel,
		weights:   weights,
		modelName: modelName,
	}, nil
}

func (b *LocalBackend) Kind() BackendKind {
	return BackendLocal
}

func (b *LocalBackend) Generate(ctx context.Context, req GenerateRequest, onChunk func(cumulative string)) (string, error) {
	if b.weights != nil && b.weights.Readiness().State != LocalReady {
		return "", &BackendError{
			Backend: BackendLocal,
			Reason:  "model weights are not loaded",
		}
	}

	text, err := streamChat(ctx, b.chatModel, req, onChunk)
	if err != nil {
		return "", &BackendError{
			Backend: BackendLocal,
			Reason:  "local inference failed",
			Err:     err,
		}
	}
	return text, nil
}
