package engine

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"ticksplit/internal/domain"
	"ticksplit/internal/session"
)

// Stats summarizes one security-day replay.
type Stats struct {
	InputTicks      int // rows received before filtering
	KeptTicks       int // rows that survived the status/session filter
	MalformedTicks  int // rows rejected by validation
	AuctionTrades   int // trades emitted without order attribution
	FallbackCancels int // cancels priced from the last traded price
	SettlementDrops int // accumulators with non-positive derived qty

	NewOrders    int
	CancelOrders int
	TakerOrders  int // New orders with IsAggressive=true
	MakerOrders  int // New orders with IsAggressive=false
	Trades       int
}

// Replayer is the single-threaded per-security event processor. It
// consumes a pre-filtered, pre-sorted tick sequence and rebuilds the
// order and trade tables the exchange never published separately.
//
// All state is owned by one replay for one security-day. Run it in a
// single goroutine; parallelism belongs across securities, not inside.
type Replayer struct {
	securityID string
	states     map[int64]*domain.OrderState
	orders     []domain.OrderRecord
	trades     []domain.TradeRecord

	// lastPrice is the most recent traded price in this replay, used
	// only as the final cancel-price fallback.
	lastPrice decimal.Decimal

	totals ChannelTotals
	stats  Stats
	sorted bool
}

// NewReplayer creates a replayer for one security-day.
func NewReplayer(securityID string) *Replayer {
	return &Replayer{
		securityID: securityID,
		states:     make(map[int64]*domain.OrderState),
	}
}

// Prepare applies the upstream contract the replay depends on: status
// records dropped, continuous-session filter applied, and a stable
// (TickTime, BizIndex) sort. BizIndex is the exchange's authoritative
// tie-break for ticks sharing a millisecond; insertion order is never
// trusted.
func Prepare(ticks []domain.RawTick) []domain.RawTick {
	kept := make([]domain.RawTick, 0, len(ticks))
	for _, t := range ticks {
		if t.Kind == domain.KindStatus {
			continue
		}
		if !session.IsContinuous(t.TickTime) {
			continue
		}
		kept = append(kept, t)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].TickTime != kept[j].TickTime {
			return kept[i].TickTime < kept[j].TickTime
		}
		return kept[i].BizIndex < kept[j].BizIndex
	})

	return kept
}

// Process dispatches one tick. A validation error means the record was
// rejected and counted; the replay itself continues.
func (r *Replayer) Process(t *domain.RawTick) error {
	if err := t.Validate(); err != nil {
		r.stats.MalformedTicks++
		return err
	}

	switch t.Kind {
	case domain.KindTrade:
		r.handleTrade(t)
	case domain.KindAdd:
		r.handleAdd(t)
	case domain.KindDelete:
		r.handleDelete(t)
	case domain.KindStatus:
		// Excluded upstream; nothing to replay if one slips through.
	}
	return nil
}

// handleTrade emits the trade unconditionally, then rebuilds only the
// initiating side. The passive side always has its own Add record in
// the feed; touching it here would double-count it downstream.
func (r *Replayer) handleTrade(t *domain.RawTick) {
	var (
		activeSide int8
		activeNo   int64
		side       domain.Side
	)
	switch t.Flag {
	case domain.FlagBuy:
		activeSide, activeNo, side = domain.ActiveSideBuy, t.BuyOrderNo, domain.SideBuy
	case domain.FlagSell:
		activeSide, activeNo, side = domain.ActiveSideSell, t.SellOrderNo, domain.SideSell
	default:
		activeSide = domain.ActiveSideAuction
	}

	r.trades = append(r.trades, domain.TradeRecord{
		SecurityID: r.securityID,
		BizIndex:   t.BizIndex,
		TickTime:   t.TickTime,
		BidOrderNo: t.BuyOrderNo,
		AskOrderNo: t.SellOrderNo,
		Price:      t.Price,
		Qty:        t.Qty,
		TradeMoney: t.Notional(),
		ActiveSide: activeSide,
	})
	r.stats.Trades++

	if t.Price.IsPositive() {
		r.lastPrice = t.Price
	}

	if activeSide == domain.ActiveSideAuction {
		// Auction executions are real trades but have no continuous-market
		// initiator to attribute.
		r.stats.AuctionTrades++
		return
	}

	if st, ok := r.states[activeNo]; ok {
		st.AddTradeQty(t.Qty)
		st.TradePrice = t.Price
		return
	}

	// First appearance as trade initiator: the order was born a taker.
	st := domain.AcquireOrderState()
	st.OrderNo = activeNo
	st.Side = side
	st.FirstTime = t.TickTime
	st.FirstBizIndex = t.BizIndex
	st.TradeQty = t.Qty
	st.TradePrice = t.Price
	st.IsAggressive = true
	r.states[activeNo] = st
}

// handleAdd accumulates a posted remainder. Shanghai sends the trade
// ticks of an order before its Add, so an order already in the store
// is a partially-filled taker posting what is left; its origin fields
// stay untouched.
func (r *Replayer) handleAdd(t *domain.RawTick) {
	orderNo, side, err := t.OrderRef()
	if err != nil {
		// Unreachable after Validate; kept as a guard.
		return
	}

	st, ok := r.states[orderNo]
	if !ok {
		st = domain.AcquireOrderState()
		st.OrderNo = orderNo
		st.Side = side
		st.FirstTime = t.TickTime
		st.FirstBizIndex = t.BizIndex
		st.IsAggressive = false
		r.states[orderNo] = st
	}

	st.AddRestingQty(t.Qty)
	st.RestingPrice = t.Price
	st.HasResting = true
}

// handleDelete emits a Cancel record immediately. The cancel price is
// resolved by a three-level fallback: the delete record's own price,
// then the cached order's effective price, then the last traded price
// of the whole replay. The last level is degraded data and is counted.
func (r *Replayer) handleDelete(t *domain.RawTick) {
	orderNo, side, err := t.OrderRef()
	if err != nil {
		return
	}

	var price decimal.Decimal
	st, cached := r.states[orderNo]
	switch {
	case t.Price.IsPositive():
		price = t.Price
	case cached:
		price = st.Price()
	default:
		price = r.lastPrice
		r.stats.FallbackCancels++
		slog.Warn("cancel price fell back to last trade",
			"security", r.securityID,
			"order_no", orderNo,
			"biz_index", t.BizIndex,
			"time", session.Format(t.TickTime),
		)
	}

	// BizIndex and TickTime belong to the delete tick itself, never to
	// the original order. Aggressiveness is undefined for a cancel.
	r.orders = append(r.orders, domain.OrderRecord{
		SecurityID: r.securityID,
		BizIndex:   t.BizIndex,
		TickTime:   t.TickTime,
		OrderNo:    orderNo,
		OrdType:    domain.OrdTypeCancel,
		Side:       side,
		Price:      price,
		Qty:        t.Qty,
	})
	r.stats.CancelOrders++

	if cached {
		// The order's life ended with this Cancel; settlement must not
		// emit it a second time.
		st.Cancelled = true
	}
}

// Settle drains every remaining accumulator into a New order record,
// reconstructing the original order: first-seen seq/time, derived
// price, executed plus resting quantity. Orders already emitted as
// Cancel are excluded, and a non-positive derived quantity is a data
// artifact dropped without error.
func (r *Replayer) Settle() {
	for orderNo, st := range r.states {
		delete(r.states, orderNo)

		if st.Cancelled {
			domain.ReleaseOrderState(st)
			continue
		}

		qty := st.TotalQty()
		if qty <= 0 {
			r.stats.SettlementDrops++
			domain.ReleaseOrderState(st)
			continue
		}

		agg := st.IsAggressive
		r.orders = append(r.orders, domain.OrderRecord{
			SecurityID:   r.securityID,
			BizIndex:     st.FirstBizIndex,
			TickTime:     st.FirstTime,
			OrderNo:      st.OrderNo,
			OrdType:      domain.OrdTypeNew,
			Side:         st.Side,
			Price:        st.Price(),
			Qty:          qty,
			IsAggressive: &agg,
		})
		r.stats.NewOrders++
		if agg {
			r.stats.TakerOrders++
		} else {
			r.stats.MakerOrders++
		}

		r.totals.add(st.Side, agg, st.TradeQty, st.RestingQty)
		domain.ReleaseOrderState(st)
	}
}

// Results returns the finalized tables, each sorted by the
// (TickTime, BizIndex) emission contract.
func (r *Replayer) Results() ([]domain.OrderRecord, []domain.TradeRecord) {
	if !r.sorted {
		SortOrders(r.orders)
		SortTrades(r.trades)
		r.sorted = true
	}
	return r.orders, r.trades
}

// Stats returns the replay counters.
func (r *Replayer) Stats() Stats {
	return r.stats
}

// Totals returns the per-channel quantity aggregates accumulated at
// settlement, consumed by the conservation check.
func (r *Replayer) Totals() ChannelTotals {
	return r.totals
}

// Reconstruct runs the full pipeline for one security-day: filter,
// sort, replay, settle, sequence. An empty input yields empty tables.
func Reconstruct(securityID string, ticks []domain.RawTick) ([]domain.OrderRecord, []domain.TradeRecord, Stats) {
	kept := Prepare(ticks)

	r := NewReplayer(securityID)
	for i := range kept {
		if err := r.Process(&kept[i]); err != nil {
			slog.Warn("skipping malformed tick", "security", securityID, "err", err)
		}
	}
	r.Settle()

	orders, trades := r.Results()
	stats := r.stats
	stats.InputTicks = len(ticks)
	stats.KeptTicks = len(kept)
	return orders, trades, stats
}
