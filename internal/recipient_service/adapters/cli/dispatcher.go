package cli

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aradsms/recipient_intake/internal/recipient_service/app"
)

// logDispatcher stands in for a messaging backend: it logs the request and
// hands back a fresh batch ID.
type logDispatcher struct {
	logger *slog.Logger
}

func newLogDispatcher(logger *slog.Logger) *logDispatcher {
	return &logDispatcher{logger: logger.With("component", "log_dispatcher")}
}

func (d *logDispatcher) Dispatch(ctx context.Context, req app.SendRequest) (string, error) {
	batchID := uuid.NewString()
	d.logger.InfoContext(ctx, "Send request accepted",
		"batch_id", batchID,
		"sender_id", req.SenderID,
		"recipients", len(req.Recipients),
		"segments", req.Segments,
	)
	return batchID, nil
}
