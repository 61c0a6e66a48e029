package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPurchaseSplit(t *testing.T) {
	p := NewPurchase("buyer-1", "book-1", "book", 100)

	assert.Equal(t, 100.0, p.Price)
	assert.Equal(t, 18.0, p.GSTAmount)
	assert.Equal(t, 30.0, p.CommissionAmount)
	assert.Equal(t, 70.0, p.AuthorAmount)
	assert.Equal(t, 118.0, p.TotalAmount)
	assert.NotEmpty(t, p.ID)
}

func TestNewPurchaseRounding(t *testing.T) {
	p := NewPurchase("buyer-1", "book-1", "book", 99.99)

	assert.Equal(t, 18.0, p.GSTAmount)
	assert.Equal(t, 30.0, p.CommissionAmount)
	assert.Equal(t, 69.99, p.AuthorAmount)
	assert.Equal(t, 117.99, p.TotalAmount)
}

func TestNewPurchaseZeroPrice(t *testing.T) {
	p := NewPurchase("buyer-1", "book-1", "book", 0)

	assert.Zero(t, p.GSTAmount)
	assert.Zero(t, p.CommissionAmount)
	assert.Zero(t, p.AuthorAmount)
	assert.Zero(t, p.TotalAmount)
}
