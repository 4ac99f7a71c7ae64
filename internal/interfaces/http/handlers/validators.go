package handlers

import (
	"sprintos.backend/internal/domain/entities"
	"sprintos.backend/pkg/validation"
)

// RegisterValidators installs the custom binding tags used by request inputs
func RegisterValidators() error {
	if err := validation.RegisterEnum("team_role", func(s string) bool {
		return entities.MemberRole(s).IsValid()
	}); err != nil {
		return err
	}
	return validation.RegisterEnum("task_status", func(s string) bool {
		return entities.TaskStatus(s).IsValid()
	})
}
