package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProductSnapshot is the catalog listing captured by value at the moment it
// enters the cart. It is never a live reference; price changes upstream do
// not rewrite items already carted.
type ProductSnapshot struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	PriceCents   int64  `json:"price_cents" validate:"gte=0"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
	MerchantID   string `json:"merchant_id"`
	MerchantName string `json:"merchant_name"`
}

// Validate checks that a snapshot decoded from the remote catalog is usable.
func (p ProductSnapshot) Validate() error {
	return validate.Struct(p)
}

// Price returns the unit price as display money.
func (p ProductSnapshot) Price() Money {
	return Money(p.PriceCents)
}
