package llm

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// streamChat drives one streaming chat request against an eino chat model and
// accumulates the assistant content. onChunk is invoked with the cumulative
// text after every received delta.
func streamChat(ctx context.Context, chatModel model.BaseChatModel, req GenerateRequest, onChunk func(cumulative string)) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(req.SystemPrompt),
		schema.UserMessage(req.UserPrompt),
	}

	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	reader, err := chatModel.Stream(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if reader == nil {
		return "", errors.New("model returned nil stream reader")
	}
	defer reader.Close()

	var content strings.Builder
	for {
		msg, recvErr := reader.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				break
			}
			return "", recvErr
		}
		if msg == nil || msg.Content == "" {
			continue
		}

		content.WriteString(msg.Content)
		if onChunk != nil {
			onChunk(content.String())
		}
	}

	return content.String(), nil
}
