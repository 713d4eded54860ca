package usecases

import (
	"context"
	"time"

	"ticketbridge/internal/domain/ticket"
)

// TicketSummary is one line of the active-ticket listing.
type TicketSummary struct {
	ChannelID   int64
	ChannelName string
	Kind        ticket.Kind
	OpenerID    int64
	Digests     int
	CreatedAt   time.Time
}

// ListTicketsUseCase reports every open ticket binding, ordered by channel id.
type ListTicketsUseCase struct {
	bindings ticket.BindingRepository
}

func NewListTicketsUseCase(bindings ticket.BindingRepository) *ListTicketsUseCase {
	return &ListTicketsUseCase{bindings: bindings}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context) ([]TicketSummary, error) {
	bindings, err := uc.bindings.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]TicketSummary, 0, len(bindings))
	for _, binding := range bindings {
		summaries = append(summaries, TicketSummary{
			ChannelID:   binding.ChannelID(),
			ChannelName: binding.ChannelName(),
			Kind:        binding.Kind(),
			OpenerID:    binding.OpenerID(),
			Digests:     len(binding.DigestMessageIDs()),
			CreatedAt:   binding.CreatedAt(),
		})
	}
	return summaries, nil
}
