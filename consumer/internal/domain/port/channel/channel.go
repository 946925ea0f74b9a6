package channel

import (
	"context"
	"errors"

	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
)

// Message is a notification ready for delivery on one channel. Body is Text
// rendered with the channel's Highlighter.
type Message struct {
	NotificationID string
	UserID         string
	Destination    string
	Subject        string
	Body           string
	Text           string
	Template       string
	Spans          []notiftemplate.PlaceholderSpan
}

type Channel interface {
	Send(ctx context.Context, msg Message) error
	// Highlighter decides how resolved spans are rendered in Body.
	Highlighter() notiftemplate.Highlighter
}

// ErrPermanent matches, through errors.Is, every error wrapped by Permanent.
var ErrPermanent = errors.New("permanent delivery failure")

type permanentError struct {
	err error
}

func (e permanentError) Error() string        { return e.err.Error() }
func (e permanentError) Unwrap() error        { return e.err }
func (e permanentError) Is(target error) bool { return target == ErrPermanent }

// Permanent marks err as a failure that redelivering the same message cannot
// fix. The message of err is kept as is. Permanent(nil) returns nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}
