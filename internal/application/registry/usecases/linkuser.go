// Package usecases contains registry management: linking users to
// notification chats and assigning fan-out roles.
package usecases

import (
	"context"

	"ticketbridge/internal/domain/registry"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type LinkUserCommand struct {
	UserID int64
	ChatID int64

	// Unlink removes the binding instead of setting it.
	Unlink bool
}

type LinkUserResult struct {
	UserID int64
	ChatID int64
	Linked bool
}

type LinkUserUseCase struct {
	registry *registry.Registry
	repo     registry.Repository
	logger   logger.Interface
}

func NewLinkUserUseCase(reg *registry.Registry, repo registry.Repository, log logger.Interface) *LinkUserUseCase {
	return &LinkUserUseCase{registry: reg, repo: repo, logger: log}
}

func (uc *LinkUserUseCase) Execute(ctx context.Context, cmd LinkUserCommand) (*LinkUserResult, error) {
	if cmd.UserID == 0 {
		return nil, errors.NewValidationError("user id is required")
	}

	if cmd.Unlink {
		uc.registry.RemoveLink(cmd.UserID)
	} else {
		if cmd.ChatID == 0 {
			return nil, errors.NewValidationError("chat id is required")
		}
		uc.registry.SetLink(cmd.UserID, cmd.ChatID)
	}

	if err := uc.repo.SaveLinks(ctx, uc.registry); err != nil {
		uc.logger.Errorw("failed to persist user links", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to persist user links")
	}

	uc.logger.Infow("user link updated", "user_id", cmd.UserID, "chat_id", cmd.ChatID, "unlink", cmd.Unlink)
	return &LinkUserResult{UserID: cmd.UserID, ChatID: cmd.ChatID, Linked: !cmd.Unlink}, nil
}
