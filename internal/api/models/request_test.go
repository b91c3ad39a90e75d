package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exmatch/exchange/internal/types"
)

func validRequest() SubmitOrderRequest {
	return SubmitOrderRequest{
		UserID:    uuid.NewString(),
		Symbol:    "BTC-USD",
		Side:      "buy",
		OrderType: "limit",
		Price:     "50000.25",
		Quantity:  "1.5",
	}
}

func TestParseValidRequest(t *testing.T) {
	req := validRequest()

	parsed, httpErr := req.Parse()
	require.Nil(t, httpErr)
	assert.Equal(t, "BTC-USD", parsed.Symbol)
	assert.Equal(t, types.SideBuy, parsed.Side)
	assert.Equal(t, types.KindLimit, parsed.Kind)
	assert.True(t, parsed.Price.Equal(decimal.RequireFromString("50000.25")))
	assert.True(t, parsed.Quantity.Equal(decimal.RequireFromString("1.5")))
}

func TestParseNormalizesCaseAndWhitespace(t *testing.T) {
	req := validRequest()
	req.Side = "  BUY "
	req.OrderType = " Limit "
	req.Symbol = " BTC-USD "

	parsed, httpErr := req.Parse()
	require.Nil(t, httpErr)
	assert.Equal(t, types.SideBuy, parsed.Side)
	assert.Equal(t, types.KindLimit, parsed.Kind)
	assert.Equal(t, "BTC-USD", parsed.Symbol)
}

func TestParseMarketOrderWithoutPrice(t *testing.T) {
	req := validRequest()
	req.OrderType = "market"
	req.Price = ""

	parsed, httpErr := req.Parse()
	require.Nil(t, httpErr)
	assert.True(t, parsed.Price.IsZero())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SubmitOrderRequest)
		code   ErrorCode
	}{
		{"bad user id", func(r *SubmitOrderRequest) { r.UserID = "not-a-uuid" }, ErrInvalidUserID},
		{"empty symbol", func(r *SubmitOrderRequest) { r.Symbol = "" }, ErrInvalidSymbol},
		{"symbol too long", func(r *SubmitOrderRequest) { r.Symbol = "ABCDEFGHIJKLMNOPQRSTU" }, ErrInvalidSymbol},
		{"bad side", func(r *SubmitOrderRequest) { r.Side = "hold" }, ErrInvalidSide},
		{"bad order type", func(r *SubmitOrderRequest) { r.OrderType = "iceberg" }, ErrInvalidOrderType},
		{"bad quantity", func(r *SubmitOrderRequest) { r.Quantity = "abc" }, ErrInvalidQuantity},
		{"zero quantity", func(r *SubmitOrderRequest) { r.Quantity = "0" }, ErrInvalidQuantity},
		{"negative quantity", func(r *SubmitOrderRequest) { r.Quantity = "-1" }, ErrInvalidQuantity},
		{"bad price", func(r *SubmitOrderRequest) { r.Price = "fifty" }, ErrInvalidPrice},
		{"zero price", func(r *SubmitOrderRequest) { r.Price = "0" }, ErrInvalidPrice},
		{"negative price", func(r *SubmitOrderRequest) { r.Price = "-50000" }, ErrInvalidPrice},
		{"market with zero price", func(r *SubmitOrderRequest) {
			r.OrderType = "market"
			r.Price = "0"
		}, ErrInvalidPrice},
		{"market with negative price", func(r *SubmitOrderRequest) {
			r.OrderType = "market"
			r.Price = "-1"
		}, ErrInvalidPrice},
		{"limit without price", func(r *SubmitOrderRequest) { r.Price = "" }, ErrMissingPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			parsed, httpErr := req.Parse()
			assert.Nil(t, parsed)
			require.NotNil(t, httpErr)
			assert.Equal(t, tc.code, httpErr.Error.Code)
		})
	}
}

func TestParseStopOrdersPassTransport(t *testing.T) {
	// Stop kinds are valid on the wire; the engine rejects them with a
	// reason instead of the transport turning them away.
	req := validRequest()
	req.OrderType = "stop_limit"

	parsed, httpErr := req.Parse()
	require.Nil(t, httpErr)
	assert.Equal(t, types.KindStopLimit, parsed.Kind)
}
