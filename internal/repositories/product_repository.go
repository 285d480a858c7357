package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Sitara-Husain/ECommerce/internal/models"
)

// ProductRepository defines the interface for product data operations.
// GetByID and List only see live rows (is_active, not deleted).
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// List returns live products, newest created first.
	List(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	// TitleExists reports whether another live product already uses the
	// title, case-insensitively. excludeID skips the product itself on
	// update; pass uuid.Nil on create.
	TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error)
}

type productRepo struct {
	db DB
}

// NewProductRepository creates a new instance of the product repository.
func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

func baseSelectProduct() string {
	return `
		SELECT id, title, description, price, is_active, is_deleted, created_at, updated_at
		FROM products`
}

func (r *productRepo) scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price,
		&p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	q := `
		INSERT INTO products (id, title, description, price, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, q,
		product.ID, product.Title, product.Description, product.Price,
		product.IsActive, product.IsDeleted,
	)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	q := baseSelectProduct() + " WHERE id = $1 AND is_active = TRUE AND is_deleted = FALSE"
	row := r.db.QueryRow(ctx, q, id)
	return r.scanProduct(row)
}

func (r *productRepo) List(ctx context.Context) ([]*models.Product, error) {
	q := baseSelectProduct() + " WHERE is_active = TRUE AND is_deleted = FALSE ORDER BY created_at DESC"
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price,
			&p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	q := `
		UPDATE products SET
			title = $1, description = $2, price = $3, updated_at = NOW()
		WHERE id = $4 AND is_deleted = FALSE
	`
	_, err := r.db.Exec(ctx, q, product.Title, product.Description, product.Price, product.ID)
	return err
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	q := `UPDATE products SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *productRepo) TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error) {
	q := `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE LOWER(title) = LOWER($1) AND is_deleted = FALSE AND id <> $2
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, q, title, excludeID).Scan(&exists)
	return exists, err
}
