// Package usecases contains template management: saving, publishing,
// field edits, and inspection of panel templates.
package usecases

import (
	"context"

	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type SaveTemplateCommand struct {
	// Document is the raw template document as authored; it goes through
	// schema normalization before anything is persisted.
	Document map[string]any
}

type SaveTemplateResult struct {
	Name          string
	IsTicketPanel bool
}

type SaveTemplateUseCase struct {
	templates template.Repository
	logger    logger.Interface
}

func NewSaveTemplateUseCase(templates template.Repository, log logger.Interface) *SaveTemplateUseCase {
	return &SaveTemplateUseCase{templates: templates, logger: log}
}

func (uc *SaveTemplateUseCase) Execute(ctx context.Context, cmd SaveTemplateCommand) (*SaveTemplateResult, error) {
	tmpl, err := template.Normalize(cmd.Document)
	if err != nil {
		uc.logger.Errorw("rejected template document", "error", err)
		return nil, err
	}

	if err := uc.templates.Save(ctx, tmpl); err != nil {
		uc.logger.Errorw("failed to store template", "name", tmpl.Name, "error", err)
		return nil, errors.NewInternalError("failed to store template")
	}

	uc.logger.Infow("template saved", "name", tmpl.Name, "ticket_panel", tmpl.IsTicketPanel)
	return &SaveTemplateResult{Name: tmpl.Name, IsTicketPanel: tmpl.IsTicketPanel}, nil
}
