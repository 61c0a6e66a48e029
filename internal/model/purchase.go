package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Revenue split applied to every sale. GST is charged on top of the list
// price; the remainder is divided between the platform and the author.
const (
	GSTRate        = 0.18
	CommissionRate = 0.30
)

// Purchase records a completed sale with its revenue split. The split is
// computed once at creation and never recomputed from the price.
type Purchase struct {
	ID               string    `db:"id" json:"id"`
	BuyerID          string    `db:"buyer_id" json:"buyerId"`
	ItemID           string    `db:"item_id" json:"itemId"`
	ItemType         string    `db:"item_type" json:"itemType"`
	Price            float64   `db:"price" json:"price"`
	GSTAmount        float64   `db:"gst_amount" json:"gstAmount"`
	CommissionAmount float64   `db:"commission_amount" json:"commissionAmount"`
	AuthorAmount     float64   `db:"author_amount" json:"authorAmount"`
	TotalAmount      float64   `db:"total_amount" json:"totalAmount"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// NewPurchase builds a purchase with the revenue split applied to price.
func NewPurchase(buyerID, itemID, itemType string, price float64) *Purchase {
	gst := round2(price * GSTRate)
	commission := round2(price * CommissionRate)

	return &Purchase{
		ID:               uuid.NewString(),
		BuyerID:          buyerID,
		ItemID:           itemID,
		ItemType:         itemType,
		Price:            price,
		GSTAmount:        gst,
		CommissionAmount: commission,
		AuthorAmount:     round2(price - commission),
		TotalAmount:      round2(price + gst),
		CreatedAt:        time.Now().UTC(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
