package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTradeSideHelpers(t *testing.T) {
	maker := uuid.New()
	taker := uuid.New()

	buyTaker := &Trade{MakerOrderID: maker, TakerOrderID: taker, TakerSide: SideBuy}
	assert.Equal(t, taker, buyTaker.BuyOrderID())
	assert.Equal(t, maker, buyTaker.SellOrderID())

	sellTaker := &Trade{MakerOrderID: maker, TakerOrderID: taker, TakerSide: SideSell}
	assert.Equal(t, maker, sellTaker.BuyOrderID())
	assert.Equal(t, taker, sellTaker.SellOrderID())
}
