package usecases

import (
	"context"

	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type DeleteTemplateCommand struct {
	Name string
}

type DeleteTemplateUseCase struct {
	templates template.Repository
	logger    logger.Interface
}

func NewDeleteTemplateUseCase(templates template.Repository, log logger.Interface) *DeleteTemplateUseCase {
	return &DeleteTemplateUseCase{templates: templates, logger: log}
}

func (uc *DeleteTemplateUseCase) Execute(ctx context.Context, cmd DeleteTemplateCommand) error {
	if cmd.Name == "" {
		return errors.NewValidationError("template name is required")
	}
	if err := uc.templates.Delete(ctx, cmd.Name); err != nil {
		return err
	}
	uc.logger.Infow("template deleted", "name", cmd.Name)
	return nil
}
