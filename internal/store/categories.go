package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// CreateCategory creates a new category. Duplicate names are rejected with
// ErrDuplicateName.
func CreateCategory(ctx context.Context, db *sql.DB, name string) (*model.Category, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ? AND deleted_at IS NULL`, name,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking category name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category %q", ErrDuplicateName, name)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// ListCategories returns all non-deleted categories.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM categories
		 WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory renames a category.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name string) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE name = ? AND id != ? AND deleted_at IS NULL`,
		name, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking category name: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category %q", ErrDuplicateName, name)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ? AND deleted_at IS NULL`, name, id,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// DeleteCategory soft-deletes a category and detaches its products.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET category_id = NULL WHERE category_id = ?`, id,
	); err != nil {
		return fmt.Errorf("detaching products: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE categories SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing category delete: %w", err)
	}
	return nil
}
