package repo

import (
	"context"

	"github.com/gfmarinho/absence-messaging/internal/model"
)

type DispatchRepository interface {
	// Create persists a new record and returns its assigned id.
	Create(ctx context.Context, rec model.DispatchRecord) (int64, error)
	// FindAwaitingReply returns sent, unreplied records for the normalized
	// number, newest first.
	FindAwaitingReply(ctx context.Context, phone string) ([]model.DispatchRecord, error)
	// AttachReply sets the reply on the record iff it has none yet.
	// Reports false when the record is gone or already replied.
	AttachReply(ctx context.Context, id int64, body string) (bool, error)
	QueryByDateAndSeries(ctx context.Context, date, series string) ([]model.DispatchRecord, error)
	ListReplied(ctx context.Context) ([]model.DispatchRecord, error)
}

type TemplateRepository interface {
	Get(ctx context.Context) (string, error)
	Update(ctx context.Context, text string) error
}
