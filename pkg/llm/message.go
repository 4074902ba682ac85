package llm

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message represents a single turn in a conversation.
type Message struct {
	Role    Role   `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // Plain text content
}

// NewMessage creates a message with the given role and content.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// WithPolicy returns a new slice with the policy instruction as the leading
// system message followed by msgs in their original order. An empty policy
// is omitted. The result must be non-empty and every role recognized,
// otherwise an ErrInvalidInput error is returned. msgs is never modified.
func WithPolicy(policy string, msgs []Message) ([]Message, error) {
	out := make([]Message, 0, len(msgs)+1)
	if policy != "" {
		out = append(out, NewMessage(RoleSystem, policy))
	}

	for i, m := range msgs {
		if !m.Role.Valid() {
			return nil, InvalidInputf("messages[%d]: unknown role %q", i, m.Role)
		}
		out = append(out, m)
	}

	if len(out) == 0 {
		return nil, InvalidInputf("no messages to send")
	}

	return out, nil
}
