package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"agrobooks-api/internal/model"
)

// PurchaseFilter narrows purchase listings.
type PurchaseFilter struct {
	BuyerID  string
	ItemID   string
	ItemType string
	Limit    int
	Offset   int
}

// PurchaseRepository provides access to purchase records.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	List(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error)
}

type purchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository creates a Postgres-backed purchase repository.
func NewPurchaseRepository(db *sqlx.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	query := `
		INSERT INTO purchases (
			id, buyer_id, item_id, item_type, price,
			gst_amount, commission_amount, author_amount, total_amount, created_at
		) VALUES (
			:id, :buyer_id, :item_id, :item_type, :price,
			:gst_amount, :commission_amount, :author_amount, :total_amount, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, purchase)
	return err
}

func (r *purchaseRepository) List(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error) {
	var conditions []string
	var args []any

	if filter.BuyerID != "" {
		args = append(args, filter.BuyerID)
		conditions = append(conditions, fmt.Sprintf("buyer_id = $%d", len(args)))
	}
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		conditions = append(conditions, fmt.Sprintf("item_id = $%d", len(args)))
	}
	if filter.ItemType != "" {
		args = append(args, filter.ItemType)
		conditions = append(conditions, fmt.Sprintf("item_type = $%d", len(args)))
	}

	query := `SELECT * FROM purchases`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	purchases := []model.Purchase{}
	err := r.db.SelectContext(ctx, &purchases, query, args...)
	return purchases, err
}
