package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mlipovsek/tillpoint/internal/model"
)

// CreateProduct creates a new product.
func CreateProduct(ctx context.Context, db *sql.DB, p *model.Product) (*model.Product, error) {
	var stockPrice any
	if p.StockPrice != nil {
		stockPrice = p.StockPrice.String()
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO products (name, barcode, price, stock_price, quantity, category_id, sort_order, off_shelf)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, nullString(p.Barcode), p.Price.String(), stockPrice,
		p.Quantity, p.CategoryID, p.SortOrder, p.OffShelf,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

const productColumns = `p.id, p.name, p.barcode, p.price, p.stock_price, p.quantity,
	p.category_id, p.sort_order, p.off_shelf, p.image_mime,
	p.created_at, p.updated_at, p.deleted_at, c.name`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.id = ?`, id,
	)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// GetProductByBarcode returns a non-deleted product by barcode.
func GetProductByBarcode(ctx context.Context, db *sql.DB, barcode string) (*model.Product, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.barcode = ? AND p.deleted_at IS NULL`, barcode,
	)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product by barcode: %w", err)
	}
	return p, nil
}

// ListProducts returns all non-deleted products ordered for the register
// grid (manual sort order first, then name). Off-shelf products are
// included only when includeOffShelf is set.
func ListProducts(ctx context.Context, db *sql.DB, includeOffShelf bool) ([]model.Product, error) {
	query := `SELECT ` + productColumns + productFrom + ` WHERE p.deleted_at IS NULL`
	if !includeOffShelf {
		query += ` AND p.off_shelf = 0`
	}
	query += ` ORDER BY p.sort_order, p.name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// UpdateProduct updates a product's catalog fields. Quantity is not touched
// here; it only moves through sales and stock adjustments.
func UpdateProduct(ctx context.Context, db *sql.DB, p *model.Product) error {
	var stockPrice any
	if p.StockPrice != nil {
		stockPrice = p.StockPrice.String()
	}

	_, err := db.ExecContext(ctx,
		`UPDATE products
		 SET name = ?, barcode = ?, price = ?, stock_price = ?, category_id = ?,
		     off_shelf = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		p.Name, nullString(p.Barcode), p.Price.String(), stockPrice,
		p.CategoryID, p.OffShelf, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DeleteProduct soft-deletes a product. Existing sale line items keep
// referencing it.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// ReorderProducts rewrites sort_order to match the given id order. Used for
// manual reordering and "stick to top" in the register grid. All positions
// are written in one transaction.
func ReorderProducts(ctx context.Context, db *sql.DB, ids []int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for pos, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET sort_order = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND deleted_at IS NULL`,
			pos, id,
		); err != nil {
			return fmt.Errorf("reordering product %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}

// SetProductImage sets a product's photo.
func SetProductImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting product image: %w", err)
	}
	return nil
}

// GetProductImage returns a product's photo and MIME type.
func GetProductImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM products WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting product image: %w", err)
	}
	return image, mime.String, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	p := &model.Product{}
	var barcode, imageMime, categoryName sql.NullString
	var price string
	var stockPrice decimal.NullDecimal
	err := row.Scan(&p.ID, &p.Name, &barcode, &price, &stockPrice, &p.Quantity,
		&p.CategoryID, &p.SortOrder, &p.OffShelf, &imageMime,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt, &categoryName)
	if err != nil {
		return nil, err
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parsing product price: %w", err)
	}
	if stockPrice.Valid {
		p.StockPrice = &stockPrice.Decimal
	}
	p.Barcode = barcode.String
	p.ImageMime = imageMime.String
	p.CategoryName = categoryName.String
	return p, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
