package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/opora-ai/opora-bot/internal/model/chat"
	"github.com/opora-ai/opora-bot/internal/service/ai"
)

// stubChatModel satisfies the eino chat model interface without network I/O.
type stubChatModel struct {
	reply     string
	err       error
	calls     int
	lastInput []*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *stubChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func transcriptFixture() []chat.Message {
	return []chat.Message{
		{ID: "1", Role: chat.RoleSystem, Content: "persona"},
		{ID: "2", Role: chat.RoleUser, Content: "раньше"},
		{ID: "3", Role: chat.RoleAssistant, Content: "ответ"},
	}
}

func newService(t *testing.T, stub *stubChatModel) *ai.Service {
	t.Helper()
	svc, err := ai.NewService(context.Background(), stub, ai.Config{RequestTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return svc
}

func TestCompleteTrimsReply(t *testing.T) {
	stub := &stubChatModel{reply: "  Понимаю тебя.  \n"}
	svc := newService(t, stub)

	reply, err := svc.Complete(context.Background(), transcriptFixture(), "Мне тревожно")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if reply != "Понимаю тебя." {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
	if stub.calls != 1 {
		t.Fatalf("expected a single model call, got %d", stub.calls)
	}
}

func TestCompleteModelInputOrdering(t *testing.T) {
	stub := &stubChatModel{reply: "ok"}
	svc := newService(t, stub)

	if _, err := svc.Complete(context.Background(), transcriptFixture(), "вопрос"); err != nil {
		t.Fatalf("Complete err: %v", err)
	}

	// system + 2 history turns + pending user message
	if len(stub.lastInput) != 4 {
		t.Fatalf("expected 4 messages sent to the model, got %d", len(stub.lastInput))
	}
	if stub.lastInput[0].Role != schema.System {
		t.Fatalf("expected system message first, got %s", stub.lastInput[0].Role)
	}
	last := stub.lastInput[len(stub.lastInput)-1]
	if last.Role != schema.User || last.Content != "вопрос" {
		t.Fatalf("expected pending user message last, got %s %q", last.Role, last.Content)
	}
}

func TestCompleteRejectsMalformedTranscript(t *testing.T) {
	svc := newService(t, &stubChatModel{reply: "ok"})

	if _, err := svc.Complete(context.Background(), nil, "hi"); err == nil {
		t.Fatal("expected error for empty transcript")
	}

	noSystem := []chat.Message{{Role: chat.RoleUser, Content: "hi"}}
	if _, err := svc.Complete(context.Background(), noSystem, "hi"); err == nil {
		t.Fatal("expected error for transcript without a system entry")
	}
}

func TestCompleteEmptyReplyIsError(t *testing.T) {
	svc := newService(t, &stubChatModel{reply: "   "})

	if _, err := svc.Complete(context.Background(), transcriptFixture(), "hi"); err == nil {
		t.Fatal("expected error for empty model reply")
	}
}

func TestReplyAbsorbsFailure(t *testing.T) {
	stub := &stubChatModel{err: errors.New("upstream timeout")}
	svc := newService(t, stub)

	reply, ok := svc.Reply(context.Background(), transcriptFixture(), "hi")
	if ok {
		t.Fatal("expected failure to be reported")
	}
	if reply != ai.FallbackReply {
		t.Fatalf("expected fallback reply, got %q", reply)
	}
}

func TestReplyPassesThroughSuccess(t *testing.T) {
	svc := newService(t, &stubChatModel{reply: "Давай разберёмся вместе."})

	reply, ok := svc.Reply(context.Background(), transcriptFixture(), "hi")
	if !ok {
		t.Fatal("expected success")
	}
	if reply != "Давай разберёмся вместе." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}
