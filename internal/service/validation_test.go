package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validRequest() CreateSaleRequest {
	return CreateSaleRequest{
		SeatID:         5,
		CustomerName:   "Maria Lopez",
		DocumentNumber: "40123456",
		Phone:          "+51 987-654-321",
		Email:          "maria@example.com",
		Amount:         45.50,
	}
}

func TestCreateSaleRequestValidateOK(t *testing.T) {
	req := validRequest()
	require.NoError(t, req.Validate())
}

func TestCreateSaleRequestValidateTrimsWhitespace(t *testing.T) {
	req := validRequest()
	req.CustomerName = "  Maria Lopez  "
	req.DocumentNumber = " 40123456 "
	require.NoError(t, req.Validate())
	require.Equal(t, "Maria Lopez", req.CustomerName)
	require.Equal(t, "40123456", req.DocumentNumber)
}

func TestCreateSaleRequestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateSaleRequest)
	}{
		{"empty name", func(r *CreateSaleRequest) { r.CustomerName = "   " }},
		{"name too long", func(r *CreateSaleRequest) { r.CustomerName = strings.Repeat("a", 101) }},
		{"empty document", func(r *CreateSaleRequest) { r.DocumentNumber = "" }},
		{"document too long", func(r *CreateSaleRequest) { r.DocumentNumber = strings.Repeat("9", 21) }},
		{"phone too long", func(r *CreateSaleRequest) { r.Phone = strings.Repeat("9", 16) }},
		{"phone with letters", func(r *CreateSaleRequest) { r.Phone = "98-CALL-ME" }},
		{"email without at", func(r *CreateSaleRequest) { r.Email = "maria.example.com" }},
		{"email without tld", func(r *CreateSaleRequest) { r.Email = "maria@example" }},
		{"email too long", func(r *CreateSaleRequest) { r.Email = strings.Repeat("m", 95) + "@ex.com" }},
		{"zero seat", func(r *CreateSaleRequest) { r.SeatID = 0 }},
		{"zero amount", func(r *CreateSaleRequest) { r.Amount = 0 }},
		{"negative amount", func(r *CreateSaleRequest) { r.Amount = -10 }},
		{"amount above cap", func(r *CreateSaleRequest) { r.Amount = 10000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrValidation), "want ErrValidation, got %v", err)
		})
	}
}

func TestCreateSaleRequestOptionalContactsMayBeEmpty(t *testing.T) {
	req := validRequest()
	req.Phone = ""
	req.Email = ""
	require.NoError(t, req.Validate())
}

func TestCreateSaleRequestAmountBoundary(t *testing.T) {
	req := validRequest()
	req.Amount = 9999.99
	require.NoError(t, req.Validate())
}
