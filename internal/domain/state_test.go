package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderStateDerivedValues(t *testing.T) {
	st := &OrderState{
		OrderNo:       1001,
		Side:          SideBuy,
		FirstTime:     93000540,
		FirstBizIndex: 12345,
		IsAggressive:  true,
	}

	st.AddTradeQty(500)
	st.TradePrice = dec("10.5")

	if got := st.Price(); !got.Equal(dec("10.5")) {
		t.Errorf("Price with only trades = %s, want 10.5", got)
	}

	// Partial fill converts to a resting remainder.
	st.AddRestingQty(300)
	st.RestingPrice = dec("10.6")
	st.HasResting = true

	if got := st.TotalQty(); got != 800 {
		t.Errorf("TotalQty = %d, want 800", got)
	}
	if got := st.Price(); !got.Equal(dec("10.6")) {
		t.Errorf("Price with resting = %s, want posted price 10.6", got)
	}
}

func TestOrderStateAccumulation(t *testing.T) {
	st := &OrderState{OrderNo: 1, Side: SideSell}

	st.AddTradeQty(100)
	st.AddTradeQty(200)
	if st.TradeQty != 300 {
		t.Errorf("TradeQty = %d, want 300", st.TradeQty)
	}

	st.AddRestingQty(500)
	if st.RestingQty != 500 {
		t.Errorf("RestingQty = %d, want 500", st.RestingQty)
	}
}

func TestOrderStatePoolReset(t *testing.T) {
	st := AcquireOrderState()
	st.OrderNo = 42
	st.Side = SideBuy
	st.AddTradeQty(100)
	st.TradePrice = dec("9.9")
	st.IsAggressive = true
	st.Cancelled = true

	ReleaseOrderState(st)

	// Whatever comes out of the pool must be zero-valued.
	got := AcquireOrderState()
	defer ReleaseOrderState(got)

	if got.OrderNo != 0 || got.Side != "" || got.TradeQty != 0 ||
		got.IsAggressive || got.Cancelled || got.HasResting {
		t.Errorf("pooled state not reset: %+v", got)
	}
	if !got.TradePrice.IsZero() {
		t.Errorf("pooled state price not reset: %s", got.TradePrice)
	}
}

func TestReleaseNilOrderState(t *testing.T) {
	ReleaseOrderState(nil) // must not panic
}
