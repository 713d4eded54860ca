package usecases

import (
	"context"
	"sort"

	"ticketbridge/internal/domain/template"
)

type TemplateSummary struct {
	Name          string
	ChannelID     int64
	IsTicketPanel bool
	Published     bool
}

type ListTemplatesUseCase struct {
	templates template.Repository
}

func NewListTemplatesUseCase(templates template.Repository) *ListTemplatesUseCase {
	return &ListTemplatesUseCase{templates: templates}
}

func (uc *ListTemplatesUseCase) Execute(ctx context.Context) ([]TemplateSummary, error) {
	all, err := uc.templates.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]TemplateSummary, 0, len(all))
	for _, tmpl := range all {
		summaries = append(summaries, TemplateSummary{
			Name:          tmpl.Name,
			ChannelID:     tmpl.ChannelID,
			IsTicketPanel: tmpl.IsTicketPanel,
			Published:     tmpl.LastMessageID != 0,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}
