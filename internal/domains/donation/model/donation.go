package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Donation is a pledge submitted through the public site. Status is
// "received" on creation; there is no further lifecycle.
type Donation struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Email     string          `json:"email" db:"email"`
	Phone     *string         `json:"phone,omitempty" db:"phone"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Method    string          `json:"method" db:"method"`
	Note      *string         `json:"note,omitempty" db:"note"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

const StatusReceived = "received"

var (
	ErrDonationNotFound = errors.New("donation not found")
	ErrInvalidAmount    = errors.New("donation amount must be positive")
)

type CreateDonationRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Amount string `json:"amount"`
	Method string `json:"method"`
	Note   string `json:"note"`
}

func (r CreateDonationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required")),
		validation.Field(&r.Amount, validation.Required.Error("amount is required")),
		validation.Field(&r.Method, validation.Required.Error("payment method is required")),
	)
}

// ParseAmount converts the request amount to a decimal, rejecting
// non-positive values.
func (r CreateDonationRequest) ParseAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
