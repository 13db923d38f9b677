package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	req := CreateDonationRequest{Amount: "2500.50"}

	amount, err := req.ParseAmount()
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("2500.50")))
}

func TestParseAmount_Rejected(t *testing.T) {
	for _, raw := range []string{"0", "-10", "abc", ""} {
		req := CreateDonationRequest{Amount: raw}
		_, err := req.ParseAmount()
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %q", raw)
	}
}

func TestCreateDonationRequest_Validate(t *testing.T) {
	valid := CreateDonationRequest{Name: "Bilal Ahmed", Amount: "500", Method: "jazzcash"}
	assert.NoError(t, valid.Validate())

	missing := CreateDonationRequest{Amount: "500"}
	assert.Error(t, missing.Validate())
}
