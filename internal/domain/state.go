package domain

import "github.com/shopspring/decimal"

// OrderState accumulates everything observed about one order number
// during a single security-day replay. It exists because the feed has
// no "order created" event: the original order must be reassembled
// from the trades and posts that reference it.
//
// IsAggressive is fixed when the state is created and never reassigned.
// It records how the order was born (first referenced by a trade as
// initiator, or by a post), not its later behavior.
type OrderState struct {
	OrderNo       int64
	Side          Side
	FirstTime     int64 // TickTime of first appearance
	FirstBizIndex int64 // BizIndex of first appearance

	TradeQty     int64           // cumulative executed quantity
	RestingQty   int64           // cumulative posted quantity
	TradePrice   decimal.Decimal // most recent execution price
	RestingPrice decimal.Decimal // most recent posted price
	IsAggressive bool            // true = born as the taker side of a trade
	HasResting   bool            // at least one Add observed

	// Cancelled marks an order already emitted as a Cancel record.
	// Settlement skips it so the order is not emitted twice.
	Cancelled bool
}

// AddTradeQty accumulates executed quantity.
func (s *OrderState) AddTradeQty(qty int64) {
	s.TradeQty += qty
}

// AddRestingQty accumulates posted quantity. An order normally posts
// once, but the feed does not guarantee it.
func (s *OrderState) AddRestingQty(qty int64) {
	s.RestingQty += qty
}

// Price returns the reconstructed order price. The posted price wins
// when present: it reflects the submitted limit, while the trade price
// only bounds it.
func (s *OrderState) Price() decimal.Decimal {
	if s.RestingPrice.IsPositive() {
		return s.RestingPrice
	}
	return s.TradePrice
}

// TotalQty returns the reconstructed original order size:
// everything that executed plus everything that rested.
func (s *OrderState) TotalQty() int64 {
	return s.TradeQty + s.RestingQty
}
