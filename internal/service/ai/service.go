package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/opora-ai/opora-bot/internal/model/chat"
	"github.com/opora-ai/opora-bot/pkg/logging"
)

// FallbackReply is sent whenever the completion service cannot be reached.
// Users never see the underlying error.
const FallbackReply = "Я сейчас не могу обратиться к своей нейросети 😔\n" +
	"Попробуй, пожалуйста, написать позже."

const defaultRequestTimeout = 60 * time.Second

// Config controls per-request behavior of the completion client.
// Generation parameters (model, max tokens, temperature) are fixed on the
// chat model itself at construction time.
type Config struct {
	RequestTimeout time.Duration
}

// Service is a thin completion client: one transcript in, one reply out.
// There is no retry logic; a single failed attempt yields the fallback.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewService compiles the chat chain once. chatModel is any eino chat model;
// production wiring passes the Ark model built from configuration, tests
// pass a stub.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Service{chain: runnable, timeout: timeout}, nil
}

// Complete sends the transcript plus the pending user message to the model
// and returns the whitespace-stripped reply. The call is bounded by the
// configured request timeout.
func (s *Service) Complete(ctx context.Context, transcript []chat.Message, userText string) (string, error) {
	if len(transcript) == 0 || transcript[0].Role != chat.RoleSystem {
		return "", fmt.Errorf("transcript must start with a system message")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	input := map[string]any{
		"system":  transcript[0].Content,
		"history": buildHistory(transcript[1:]),
		"query":   userText,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}
	return reply, nil
}

// Reply is the absorbing variant of Complete: any failure is logged and
// replaced with FallbackReply, so callers always have text to send. The
// second return value reports whether the completion actually succeeded.
func (s *Service) Reply(ctx context.Context, transcript []chat.Message, userText string) (string, bool) {
	reply, err := s.Complete(ctx, transcript, userText)
	if err != nil {
		logging.WithCtx(ctx).Warn("completion failed, using fallback reply", zap.Error(err))
		return FallbackReply, false
	}
	return reply, true
}

func buildHistory(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
