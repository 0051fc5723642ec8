package service

import "context"

// Sender sends one command to a backend. *dispatch.Dispatcher implements it
// with deadline and retry semantics.
type Sender interface {
	Send(ctx context.Context, command string, payload, out any) error
}
