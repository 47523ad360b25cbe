package cartpanel

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// Command is an intent the panel relays to whoever owns the state it
// displays. The panel never applies a command itself.
type Command interface {
	isCommand()
}

// Dismiss asks the parent to hide the panel.
type Dismiss struct{}

// ChangeQuantity never carries a negative quantity. Zero means the owner
// should drop or zero the row.
type ChangeQuantity struct {
	Key      domain.LineKey
	Quantity int32
}

// Remove targets exactly one (id, size) row.
type Remove struct {
	Key domain.LineKey
}

func (Dismiss) isCommand()        {}
func (ChangeQuantity) isCommand() {}
func (Remove) isCommand()         {}

type Sink interface {
	Dispatch(ctx context.Context, cmd Command) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, cmd Command) error

func (f SinkFunc) Dispatch(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}
