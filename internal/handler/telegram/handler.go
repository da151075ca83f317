package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/opora-ai/opora-bot/internal/analysis/crisis"
	"github.com/opora-ai/opora-bot/internal/model/chat"
	"github.com/opora-ai/opora-bot/internal/service/session"
	"github.com/opora-ai/opora-bot/pkg/logging"
)

// Sender is the slice of the Telegram API the handler depends on.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Completer produces a reply for a transcript plus the pending user message.
// The boolean reports whether the completion succeeded; a false result still
// carries user-safe fallback text.
type Completer interface {
	Reply(ctx context.Context, transcript []chat.Message, userText string) (string, bool)
}

// Handler routes inbound Telegram updates to the command handlers and the
// content flow.
type Handler struct {
	api      Sender
	sessions *session.Store
	ai       Completer

	// userLocks serializes the whole read-complete-append exchange per
	// user, since updates are handled on separate goroutines.
	userLocks sync.Map // int64 -> *sync.Mutex
}

// New wires the handler to its collaborators.
func New(api Sender, sessions *session.Store, completer Completer) *Handler {
	return &Handler{api: api, sessions: sessions, ai: completer}
}

// Run consumes the updates channel until the context is cancelled, handling
// each update on its own goroutine.
func (h *Handler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go h.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches a single update. Non-text and empty messages are
// dropped silently.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	ctx = logging.WithUpdate(ctx, msg.From.ID, update.UpdateID)

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	h.handleText(ctx, msg)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		logging.WithCtx(ctx).Info("received /start", zap.String("username", msg.From.UserName))
		h.sendText(ctx, msg.Chat.ID, startText)
	case "help":
		h.sendText(ctx, msg.Chat.ID, helpText)
	case "reset":
		h.sessions.Reset(msg.From.ID)
		h.sendText(ctx, msg.Chat.ID, resetText)
	default:
		// Unknown commands are ignored, matching the command menu the bot
		// advertises.
	}
}

// handleText runs the content flow: crisis check first, then the completion
// round-trip with history.
func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	logging.WithCtx(ctx).Info("incoming message", zap.Int("length", len(text)))

	// Best-effort typing indicator; its failure must not affect the flow.
	if _, err := h.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		logging.WithCtx(ctx).Debug("typing indicator failed", zap.Error(err))
	}

	// The crisis branch is taken before any fallible completion call and
	// leaves no trace in the session store.
	if crisis.Classify(text) == crisis.Crisis {
		logging.WithCtx(ctx).Info("crisis message detected, sending safety reply")
		h.sendText(ctx, msg.Chat.ID, crisisText)
		return
	}

	userID := msg.From.ID
	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	transcript := h.sessions.GetOrCreate(userID)
	reply, ok := h.ai.Reply(ctx, transcript, text)
	if ok {
		// A failed completion records nothing: the user's message is not
		// kept, so the next attempt starts from the same history.
		if err := h.sessions.AppendExchange(userID, text, reply); err != nil {
			logging.WithCtx(ctx).Error("failed to record exchange", zap.Error(err))
		}
	}

	h.sendText(ctx, msg.Chat.ID, reply)
}

// sendText delivers a reply; delivery errors are logged and dropped for
// that interaction.
func (h *Handler) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logging.WithCtx(ctx).Error("failed to send message", zap.Error(err))
	}
}

func (h *Handler) userLock(userID int64) *sync.Mutex {
	lock, _ := h.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
