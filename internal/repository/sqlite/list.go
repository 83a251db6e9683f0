package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/game-list/internal/domain"
)

// listRepo implements domain.ListRepository using SQLite. Every statement is
// filtered by user_id so foreign lists are indistinguishable from missing ones.
type listRepo struct {
	db *sql.DB
}

const listColumns = `id, user_id, name, type, description, created_at, updated_at`

func scanList(row interface{ Scan(...any) error }, l *domain.List) error {
	return row.Scan(&l.ID, &l.UserID, &l.Name, &l.Type, &l.Description, &l.CreatedAt, &l.UpdatedAt)
}

func (r *listRepo) Create(ctx context.Context, list *domain.List) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO lists (user_id, name, type, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		list.UserID, list.Name, list.Type, list.Description, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get list id: %w", err)
	}

	list.ID = id
	list.CreatedAt = now
	list.UpdatedAt = now
	return nil
}

func (r *listRepo) GetByID(ctx context.Context, userID, id int64) (*domain.List, error) {
	l := &domain.List{}
	err := scanList(r.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE id = ? AND user_id = ?`, id, userID,
	), l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (r *listRepo) ListByUser(ctx context.Context, userID int64, listType *domain.ListType) ([]domain.List, error) {
	query := `SELECT ` + listColumns + ` FROM lists WHERE user_id = ?`
	args := []any{userID}
	if listType != nil {
		query += ` AND type = ?`
		args = append(args, *listType)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	lists := []domain.List{}
	for rows.Next() {
		var l domain.List
		if err := scanList(rows, &l); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *listRepo) Update(ctx context.Context, list *domain.List) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE lists SET name = ?, type = ?, description = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		list.Name, list.Type, list.Description, now, list.ID, list.UserID,
	)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return err
	}

	list.UpdatedAt = now
	return nil
}

// Delete removes the list; its items go with it through ON DELETE CASCADE.
func (r *listRepo) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM lists WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
