package eventstream

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNilExchangeEvent is returned when a publisher is handed a nil event.
	ErrNilExchangeEvent = errors.New("nil exchange event")

	// ErrInvalidExchangeEvent marks an event missing fields backends key on.
	ErrInvalidExchangeEvent = errors.New("invalid exchange event")
)

// Publisher delivers exchange events to a backend. The worker pool calls
// PublishExchange from several goroutines at once.
type Publisher interface {
	PublishExchange(ctx context.Context, event *ExchangeEvent) error
	Close() error
}

// Validate checks that event can be published: it must be non-nil, carry an
// event id, and use a schema version this build understands.
func Validate(event *ExchangeEvent) error {
	switch {
	case event == nil:
		return ErrNilExchangeEvent
	case event.EventID == "":
		return fmt.Errorf("%w: missing event id", ErrInvalidExchangeEvent)
	case event.SchemaVersion != SchemaVersionV1:
		return fmt.Errorf("%w: unsupported schema version %d", ErrInvalidExchangeEvent, event.SchemaVersion)
	}
	return nil
}
