package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/game-list/internal/domain"
)

// itemRepo implements domain.ItemRepository using SQLite. Items carry no user
// column; ownership is always resolved through lists.user_id.
type itemRepo struct {
	db *sql.DB
}

const itemColumns = `i.id, i.list_id, i.title, i.type, i.status, i.description, i.genre,
	i.release_year, i.rating, i.notes, i.image_url, i.platform, i.created_at, i.updated_at`

// ownedItems restricts a query on `items i` to lists owned by the bound user.
const ownedItems = `items i JOIN lists l ON l.id = i.list_id AND l.user_id = ?`

func scanItem(row interface{ Scan(...any) error }, it *domain.Item) error {
	return row.Scan(&it.ID, &it.ListID, &it.Title, &it.Type, &it.Status, &it.Description, &it.Genre,
		&it.ReleaseYear, &it.Rating, &it.Notes, &it.ImageURL, &it.Platform, &it.CreatedAt, &it.UpdatedAt)
}

// Create inserts the item only if its target list belongs to userID; otherwise
// nothing is written and ErrNotFound is returned.
func (r *itemRepo) Create(ctx context.Context, userID int64, item *domain.Item) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO items (list_id, title, type, status, description, genre, release_year,
		                    rating, notes, image_url, platform, created_at, updated_at)
		 SELECT id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		 FROM lists WHERE id = ? AND user_id = ?`,
		item.Title, item.Type, item.Status, item.Description, item.Genre, item.ReleaseYear,
		item.Rating, item.Notes, item.ImageURL, item.Platform, now, now,
		item.ListID, userID,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get item id: %w", err)
	}

	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Item, error) {
	it := &domain.Item{}
	err := scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM `+ownedItems+` WHERE i.id = ?`, userID, id,
	), it)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (r *itemRepo) Find(ctx context.Context, userID int64, filter domain.ItemFilter) ([]domain.Item, error) {
	var (
		conds []string
		args  = []any{userID}
	)
	if filter.ListID != nil {
		conds = append(conds, "i.list_id = ?")
		args = append(args, *filter.ListID)
	}
	if filter.ListType != nil {
		conds = append(conds, "l.type = ?")
		args = append(args, *filter.ListType)
	}
	if filter.Type != nil {
		conds = append(conds, "i.type = ?")
		args = append(args, *filter.Type)
	}
	if filter.Status != nil {
		conds = append(conds, "i.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		conds = append(conds, `(i.title LIKE ? ESCAPE '\' OR i.description LIKE ? ESCAPE '\' OR i.genre LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + itemColumns + ` FROM ` + ownedItems
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY i.created_at DESC, i.id DESC`

	return r.query(ctx, query, args...)
}

func (r *itemRepo) ListByList(ctx context.Context, userID, listID int64) ([]domain.Item, error) {
	return r.Find(ctx, userID, domain.ItemFilter{ListID: &listID})
}

// Update rewrites the item when both its current list and its (possibly new)
// target list belong to userID.
func (r *itemRepo) Update(ctx context.Context, userID int64, item *domain.Item) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET list_id = ?, title = ?, type = ?, status = ?, description = ?, genre = ?,
		                  release_year = ?, rating = ?, notes = ?, image_url = ?, platform = ?, updated_at = ?
		 WHERE id = ?
		   AND list_id IN (SELECT id FROM lists WHERE user_id = ?)
		   AND EXISTS (SELECT 1 FROM lists WHERE id = ? AND user_id = ?)`,
		item.ListID, item.Title, item.Type, item.Status, item.Description, item.Genre,
		item.ReleaseYear, item.Rating, item.Notes, item.ImageURL, item.Platform, now,
		item.ID, userID, item.ListID, userID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return err
	}

	item.UpdatedAt = now
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND list_id IN (SELECT id FROM lists WHERE user_id = ?)`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return expectOneRow(result)
}

func (r *itemRepo) query(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
