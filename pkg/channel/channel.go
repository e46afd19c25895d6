package channel

import (
	"context"

	"crosspost/pkg/relay"
)

// Handler processes one inbound channel message. Routing outcomes are logged
// by the router itself, so the handler reports nothing back to the transport.
type Handler func(context.Context, relay.InboundMessage)

// Adapter bridges one external transport (for example Telegram) into the
// relay loop.
type Adapter interface {
	Name() string
	Run(context.Context, Handler) error
}
