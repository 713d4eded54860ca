package usecases

import (
	"context"

	"ticketbridge/internal/domain/template"
	"ticketbridge/internal/shared/errors"
)

type ShowTemplateQuery struct {
	Name string
}

type ShowTemplateResult struct {
	Template *template.Template
	Spec     template.RenderSpec
}

type ShowTemplateUseCase struct {
	templates template.Repository
}

func NewShowTemplateUseCase(templates template.Repository) *ShowTemplateUseCase {
	return &ShowTemplateUseCase{templates: templates}
}

func (uc *ShowTemplateUseCase) Execute(ctx context.Context, query ShowTemplateQuery) (*ShowTemplateResult, error) {
	if query.Name == "" {
		return nil, errors.NewValidationError("template name is required")
	}
	tmpl, err := uc.templates.GetByName(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	return &ShowTemplateResult{Template: tmpl, Spec: template.Render(tmpl)}, nil
}
