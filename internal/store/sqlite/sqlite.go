package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/internal/store/model"
	"github.com/nulzo/formatapi/pkg/schema"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) History() store.HistoryRepository {
	return &historyRepo{db: r.executor}
}

func (r *SqliteRepository) Templates() store.TemplateRepository {
	return &templateRepo{db: r.executor}
}

type historyRepo struct {
	db DB
}

const historyColumns = `seq, id, vendor, base_url, api_key, models, capabilities, created_at`

func (r *historyRepo) Add(ctx context.Context, rec *schema.HistoryRecord) error {
	row, err := model.NewHistoryRow(rec)
	if err != nil {
		return fmt.Errorf("failed to encode history record: %w", err)
	}

	query := `
	INSERT INTO history (id, vendor, base_url, api_key, models, capabilities, created_at)
	VALUES (:id, :vendor, :base_url, :api_key, :models, :capabilities, :created_at)`
	_, err = r.db.NamedExecContext(ctx, query, row)
	return err
}

func (r *historyRepo) Recent(ctx context.Context, limit int) ([]schema.HistoryRecord, error) {
	var rows []model.HistoryRow
	query := `SELECT ` + historyColumns + ` FROM history ORDER BY seq DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (r *historyRepo) Search(ctx context.Context, keyword string) ([]schema.HistoryRecord, error) {
	var rows []model.HistoryRow
	// instr avoids LIKE wildcard escaping for user input
	query := `SELECT ` + historyColumns + ` FROM history
		WHERE instr(lower(vendor), ?) > 0 OR instr(lower(base_url), ?) > 0
		ORDER BY seq DESC`
	kw := strings.ToLower(keyword)
	if err := r.db.SelectContext(ctx, &rows, query, kw, kw); err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (r *historyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *historyRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

func (r *historyRepo) Trim(ctx context.Context, keep int) error {
	query := `DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`
	_, err := r.db.ExecContext(ctx, query, keep)
	return err
}

func records(rows []model.HistoryRow) []schema.HistoryRecord {
	out := make([]schema.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Record())
	}
	return out
}

type templateRepo struct {
	db DB
}

func (r *templateRepo) Upsert(ctx context.Context, t *schema.Template) error {
	query := `
	INSERT INTO templates (id, name, description, body, created_at, updated_at)
	VALUES (:id, :name, :description, :body, :created_at, :updated_at)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		body = excluded.body,
		updated_at = excluded.updated_at`
	_, err := r.db.NamedExecContext(ctx, query, t)
	return err
}

func (r *templateRepo) Get(ctx context.Context, id string) (*schema.Template, error) {
	var t schema.Template
	err := r.db.GetContext(ctx, &t, `SELECT id, name, description, body, created_at, updated_at FROM templates WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepo) List(ctx context.Context) ([]schema.Template, error) {
	templates := []schema.Template{}
	err := r.db.SelectContext(ctx, &templates, `SELECT id, name, description, body, created_at, updated_at FROM templates ORDER BY name`)
	return templates, err
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
