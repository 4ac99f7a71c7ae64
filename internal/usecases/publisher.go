package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	"sprintos.backend/pkg/logger"
)

// ChangePublisher announces row changes to realtime subscribers
type ChangePublisher interface {
	Publish(ctx context.Context, change entities.Change) error
}

// notify publishes a change after a successful write. Publishing is best
// effort: the write already happened, so failures are only logged.
func notify(ctx context.Context, pub ChangePublisher, table string, typ entities.ChangeType, teamID, recordID uuid.UUID) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, entities.NewChange(table, typ, teamID, recordID)); err != nil {
		logger.Warn(ctx, "Failed to publish change",
			zap.String("table", table),
			zap.String("type", string(typ)),
			zap.String("team_id", teamID.String()),
			zap.Error(err),
		)
	}
}
