// Package usecases contains the ticket lifecycle transitions: create,
// activity-driven digest refresh, and close. Each use case is wired with
// the platform ports it needs and performs its transition unconditionally;
// who may trigger a transition is the caller's policy.
package usecases

import (
	"context"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type CloseTicketExecutor interface {
	Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error)
}

type RefreshDigestExecutor interface {
	Execute(ctx context.Context, cmd RefreshDigestCommand) (*RefreshDigestResult, error)
}

type RelayReplyExecutor interface {
	Execute(ctx context.Context, cmd RelayReplyCommand) (*RelayReplyResult, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context) ([]TicketSummary, error)
}
