package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/deencompass/compass/pkg/llm"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeExchangeCompleted is emitted after a chat request returns a reply.
	EventTypeExchangeCompleted = "compass.exchange.completed"
)

// ExchangeEvent is a transport-neutral event payload for one completed
// chat exchange.
type ExchangeEvent struct {
	SchemaVersion int           `json:"schema_version"`
	EventType     string        `json:"event_type"`
	EventID       string        `json:"event_id"`
	EmittedAt     time.Time     `json:"emitted_at"`
	Source        EventSource   `json:"source"`
	RequestMeta   RequestMeta   `json:"request_meta"`
	Messages      []llm.Message `json:"messages"`
	Reply         string        `json:"reply"`
}

// EventSource identifies the adapter that produced the reply.
type EventSource struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Style    llm.Style `json:"style"`
}

// RequestMeta captures request lifecycle metadata for the event.
type RequestMeta struct {
	RequestID         string    `json:"request_id,omitempty"`
	UpstreamRequestID string    `json:"upstream_request_id,omitempty"`
	ServiceTier       string    `json:"service_tier,omitempty"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
	DurationMs        int64     `json:"duration_ms"`
}

// NewExchangeEvent builds a v1 event with a fresh event id. The policy
// message is not part of msgs.
func NewExchangeEvent(source EventSource, meta RequestMeta, msgs []llm.Message, reply string) *ExchangeEvent {
	meta.DurationMs = meta.CompletedAt.Sub(meta.StartedAt).Milliseconds()

	return &ExchangeEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeExchangeCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		RequestMeta:   meta,
		Messages:      msgs,
		Reply:         reply,
	}
}
