package domain

import "github.com/shopspring/decimal"

// EventKind identifies the record type in the merged exchange feed.
type EventKind string

const (
	KindTrade  EventKind = "T" // execution
	KindAdd    EventKind = "A" // resting order posted to the book
	KindDelete EventKind = "D" // order cancelled
	KindStatus EventKind = "S" // product status change, dropped before replay
)

// BSFlag marks the initiating side of a tick.
// On trades "N" means the execution came out of a call auction and has
// no continuous-market initiator.
type BSFlag string

const (
	FlagBuy     BSFlag = "B"
	FlagSell    BSFlag = "S"
	FlagAuction BSFlag = "N"
)

// Side is the buy/sell direction of a reconstructed order.
type Side string

const (
	SideBuy  Side = "B"
	SideSell Side = "S"
)

// ActiveSide codes for the trade table.
const (
	ActiveSideAuction int8 = 0
	ActiveSideBuy     int8 = 1
	ActiveSideSell    int8 = 2
)

// RawTick is one row of the merged tick feed, exactly as supplied by
// the exchange. Order numbers and BizIndex are scoped to one
// security-day and must never be compared across days.
type RawTick struct {
	SecurityID  string          `json:"security_id"`
	BizIndex    int64           `json:"biz_index"`
	TickTime    int64           `json:"tick_time"` // HHMMSSmmm
	Kind        EventKind       `json:"type"`
	BuyOrderNo  int64           `json:"buy_order_no"`
	SellOrderNo int64           `json:"sell_order_no"`
	Price       decimal.Decimal `json:"price"`
	Qty         int64           `json:"qty"`
	TradeMoney  decimal.Decimal `json:"trade_money"`
	Flag        BSFlag          `json:"bs_flag"`
}

// Validate rejects records that indicate upstream corruption.
// A failed tick is reported and skipped; it never aborts the replay.
func (t *RawTick) Validate() error {
	switch t.Kind {
	case KindTrade, KindAdd, KindDelete, KindStatus:
	default:
		return &TickError{BizIndex: t.BizIndex, Field: "type", Err: ErrUnknownKind}
	}

	if t.Qty < 0 {
		return &TickError{BizIndex: t.BizIndex, Field: "qty", Err: ErrNegativeQty}
	}

	switch t.Kind {
	case KindTrade:
		switch t.Flag {
		case FlagBuy:
			if t.BuyOrderNo == 0 {
				return &TickError{BizIndex: t.BizIndex, Field: "buy_order_no", Err: ErrMissingOrderNo}
			}
		case FlagSell:
			if t.SellOrderNo == 0 {
				return &TickError{BizIndex: t.BizIndex, Field: "sell_order_no", Err: ErrMissingOrderNo}
			}
		case FlagAuction:
			// No initiator to resolve.
		default:
			return &TickError{BizIndex: t.BizIndex, Field: "bs_flag", Err: ErrInvalidFlag}
		}
	case KindAdd, KindDelete:
		if _, _, err := t.OrderRef(); err != nil {
			return err
		}
	}

	return nil
}

// OrderRef resolves the order number and side an Add or Delete record
// refers to, based on the BS flag.
func (t *RawTick) OrderRef() (int64, Side, error) {
	switch t.Flag {
	case FlagBuy:
		if t.BuyOrderNo == 0 {
			return 0, "", &TickError{BizIndex: t.BizIndex, Field: "buy_order_no", Err: ErrMissingOrderNo}
		}
		return t.BuyOrderNo, SideBuy, nil
	case FlagSell:
		if t.SellOrderNo == 0 {
			return 0, "", &TickError{BizIndex: t.BizIndex, Field: "sell_order_no", Err: ErrMissingOrderNo}
		}
		return t.SellOrderNo, SideSell, nil
	default:
		return 0, "", &TickError{BizIndex: t.BizIndex, Field: "bs_flag", Err: ErrInvalidFlag}
	}
}

// Notional returns the trade money carried on the record, or
// price * qty when the feed omitted it.
func (t *RawTick) Notional() decimal.Decimal {
	if t.TradeMoney.IsPositive() {
		return t.TradeMoney
	}
	return t.Price.Mul(decimal.NewFromInt(t.Qty))
}
