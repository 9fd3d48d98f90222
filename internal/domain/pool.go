package domain

import (
	"sync"

	"github.com/shopspring/decimal"
)

// orderStatePool recycles OrderState accumulators across replays.
// One accumulator is allocated per live order number, which makes it
// the dominant allocation of a full-market day; pooling keeps GC
// pressure flat when many security replays run back to back.
//
// Usage:
//
//	st := AcquireOrderState()
//	st.OrderNo = 1001
//	// ... replay ...
//	ReleaseOrderState(st) // after the record is emitted or dropped
var orderStatePool = sync.Pool{
	New: func() interface{} {
		return &OrderState{}
	},
}

// AcquireOrderState gets an OrderState from the pool.
// The returned state has zero values and must be initialized.
func AcquireOrderState() *OrderState {
	return orderStatePool.Get().(*OrderState)
}

// ReleaseOrderState returns an OrderState to the pool.
// The state is reset to zero values before being pooled.
func ReleaseOrderState(st *OrderState) {
	if st == nil {
		return
	}
	st.OrderNo = 0
	st.Side = ""
	st.FirstTime = 0
	st.FirstBizIndex = 0
	st.TradeQty = 0
	st.RestingQty = 0
	st.TradePrice = decimal.Decimal{}
	st.RestingPrice = decimal.Decimal{}
	st.IsAggressive = false
	st.HasResting = false
	st.Cancelled = false

	orderStatePool.Put(st)
}

// WarmupStatePool pre-allocates accumulators so the first replay of a
// batch does not pay the allocation cost.
func WarmupStatePool() {
	const batchSize = 1000

	states := make([]*OrderState, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		states = append(states, AcquireOrderState())
	}
	for _, st := range states {
		ReleaseOrderState(st)
	}
}
