package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gfmarinho/absence-messaging/internal/template"
)

// SQLTemplateRepo stores the single current message template (config row
// id=1). Get falls back to the built-in default when no row was saved yet.
type SQLTemplateRepo struct {
	db     *sql.DB
	driver string
}

func NewSQLTemplateRepo(db *sql.DB, driver string) *SQLTemplateRepo {
	return &SQLTemplateRepo{db: db, driver: driver}
}

func (r *SQLTemplateRepo) Get(ctx context.Context) (string, error) {
	var text string
	err := r.db.QueryRowContext(ctx, rebind(r.driver, `
		SELECT message_template FROM config WHERE id = 1
	`)).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return template.DefaultTemplate, nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (r *SQLTemplateRepo) Update(ctx context.Context, text string) error {
	res, err := r.db.ExecContext(ctx, rebind(r.driver, `
		UPDATE config SET message_template = ? WHERE id = 1
	`), text)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, rebind(r.driver, `
		INSERT INTO config (id, message_template) VALUES (1, ?)
	`), text)
	return err
}
