package chat

import "time"

// Role tags a transcript entry. Only the three values below ever reach the
// completion service; the typed field keeps malformed role strings out.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a user's transcript. Immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
