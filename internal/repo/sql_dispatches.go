package repo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/gfmarinho/absence-messaging/internal/model"
)

const recordColumns = "id, aluno, serie, data, responsavel, numero, status, resposta, created_at"

type SQLDispatchRepo struct {
	db     *sql.DB
	driver string
}

func NewSQLDispatchRepo(db *sql.DB, driver string) *SQLDispatchRepo {
	return &SQLDispatchRepo{db: db, driver: driver}
}

func (r *SQLDispatchRepo) Create(ctx context.Context, rec model.DispatchRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, r.q(`
		INSERT INTO attendance_log (aluno, serie, data, responsavel, numero, status, resposta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, ?)
		RETURNING id
	`), rec.Student, rec.Series, rec.Date, rec.Guardian, rec.Phone, string(rec.Status), createdAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLDispatchRepo) FindAwaitingReply(ctx context.Context, phone string) ([]model.DispatchRecord, error) {
	return r.query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_log
		WHERE numero = ? AND status = 'sent' AND resposta IS NULL
		ORDER BY id DESC
	`, phone)
}

func (r *SQLDispatchRepo) AttachReply(ctx context.Context, id int64, body string) (bool, error) {
	// Conditional update is the compare-and-set: with two racing
	// correlators exactly one sees resposta IS NULL.
	res, err := r.db.ExecContext(ctx, r.q(`
		UPDATE attendance_log
		SET resposta = ?
		WHERE id = ? AND resposta IS NULL
	`), body, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQLDispatchRepo) QueryByDateAndSeries(ctx context.Context, date, series string) ([]model.DispatchRecord, error) {
	return r.query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_log
		WHERE data = ? AND serie = ?
		ORDER BY id ASC
	`, date, series)
}

func (r *SQLDispatchRepo) ListReplied(ctx context.Context) ([]model.DispatchRecord, error) {
	return r.query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_log
		WHERE resposta IS NOT NULL
		ORDER BY id DESC
	`)
}

func (r *SQLDispatchRepo) query(ctx context.Context, q string, args ...any) ([]model.DispatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.q(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DispatchRecord
	for rows.Next() {
		var rec model.DispatchRecord
		var status string
		var reply sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.Student,
			&rec.Series,
			&rec.Date,
			&rec.Guardian,
			&rec.Phone,
			&status,
			&reply,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}

		rec.Status = model.Status(status)
		if reply.Valid {
			s := reply.String
			rec.Reply = &s
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// q rewrites ? placeholders to $N for postgres; sqlite takes ? as is.
func (r *SQLDispatchRepo) q(query string) string {
	return rebind(r.driver, query)
}

func rebind(driver, query string) string {
	if driver != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, c := range []byte(query) {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
