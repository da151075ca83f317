package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opora-ai/opora-bot/internal/model/chat"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultHistoryLimit bounds a transcript's length. Once an append pushes a
// transcript past the limit it is rewritten as the system message plus the
// most recent limit-2 entries.
const DefaultHistoryLimit = 30

// Store keeps one rolling transcript per Telegram user, entirely in memory.
// The first entry of every transcript is the persona system message and is
// never evicted. Nothing survives a restart.
//
// A single mutex makes each operation atomic, so an exchange appended by
// AppendExchange always lands as an adjacent user/assistant pair. Callers
// that interleave read-then-append across a network call (the bot handler
// does) must serialize per user on their side.
type Store struct {
	mu           sync.RWMutex
	transcripts  map[int64][]chat.Message
	systemPrompt string
	historyLimit int
}

// NewStore bootstraps an empty store. systemPrompt seeds entry 0 of every
// transcript; historyLimit <= 2 falls back to DefaultHistoryLimit.
func NewStore(systemPrompt string, historyLimit int) *Store {
	if historyLimit <= 2 {
		historyLimit = DefaultHistoryLimit
	}
	return &Store{
		transcripts:  make(map[int64][]chat.Message),
		systemPrompt: systemPrompt,
		historyLimit: historyLimit,
	}
}

// GetOrCreate returns a copy of the user's transcript, seeding a fresh one
// with the persona system message on first contact.
func (s *Store) GetOrCreate(userID int64) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.transcripts[userID]
	if !ok {
		transcript = []chat.Message{newMessage(chat.RoleSystem, s.systemPrompt)}
		s.transcripts[userID] = transcript
	}

	copied := make([]chat.Message, len(transcript))
	copy(copied, transcript)
	return copied
}

// Reset drops the user's transcript entirely. Calling it for an unknown
// user is a no-op.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transcripts, userID)
}

// AppendExchange records one completed turn: the user message followed by
// the assistant reply. The transcript must already exist. Trimming runs
// eagerly after every append so the length cap is never exceeded between
// calls.
func (s *Store) AppendExchange(userID int64, userText, assistantText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.transcripts[userID]
	if !ok {
		return ErrSessionNotFound
	}

	transcript = append(transcript,
		newMessage(chat.RoleUser, userText),
		newMessage(chat.RoleAssistant, assistantText),
	)
	s.transcripts[userID] = s.trim(transcript)
	return nil
}

// trim rewrites an over-long transcript as [system] + most recent tail.
// The retained tail is historyLimit-2 entries, matching the original
// product's 30 -> 1+28 behavior.
func (s *Store) trim(transcript []chat.Message) []chat.Message {
	if len(transcript) <= s.historyLimit {
		return transcript
	}

	keep := s.historyLimit - 2
	trimmed := make([]chat.Message, 0, keep+1)
	trimmed = append(trimmed, transcript[0])
	trimmed = append(trimmed, transcript[len(transcript)-keep:]...)
	return trimmed
}

// Len reports the current transcript length for a user, zero if absent.
func (s *Store) Len(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcripts[userID])
}

// ActiveSessions counts users with a live transcript.
func (s *Store) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcripts)
}

func newMessage(role chat.Role, content string) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
