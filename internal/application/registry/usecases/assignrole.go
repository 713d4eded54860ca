package usecases

import (
	"context"

	"ticketbridge/internal/domain/registry"
	"ticketbridge/internal/shared/errors"
	"ticketbridge/internal/shared/logger"
)

type AssignRoleCommand struct {
	UserID int64
	Role   string

	// NotifyChatID registers where the user's role traffic lands. Zero
	// keeps any previously registered chat.
	NotifyChatID int64
}

type AssignRoleResult struct {
	UserID int64
	Role   registry.Role
}

type AssignRoleUseCase struct {
	registry *registry.Registry
	repo     registry.Repository
	logger   logger.Interface
}

func NewAssignRoleUseCase(reg *registry.Registry, repo registry.Repository, log logger.Interface) *AssignRoleUseCase {
	return &AssignRoleUseCase{registry: reg, repo: repo, logger: log}
}

func (uc *AssignRoleUseCase) Execute(ctx context.Context, cmd AssignRoleCommand) (*AssignRoleResult, error) {
	if cmd.UserID == 0 {
		return nil, errors.NewValidationError("user id is required")
	}
	role, err := registry.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}

	uc.registry.SetRole(cmd.UserID, role)
	if cmd.NotifyChatID != 0 {
		uc.registry.SetNotifyChat(cmd.UserID, cmd.NotifyChatID)
	}

	if err := uc.repo.SaveRoles(ctx, uc.registry); err != nil {
		uc.logger.Errorw("failed to persist role assignments", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to persist role assignments")
	}

	uc.logger.Infow("role assigned", "user_id", cmd.UserID, "role", role)
	return &AssignRoleResult{UserID: cmd.UserID, Role: role}, nil
}
