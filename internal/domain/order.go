package domain

import "github.com/shopspring/decimal"

// OrdType distinguishes reconstructed order records.
type OrdType string

const (
	OrdTypeNew    OrdType = "New"
	OrdTypeCancel OrdType = "Cancel"
)

// OrderRecord is one row of the reconstructed order table.
// For New records BizIndex/TickTime are the order's first appearance in
// the feed; for Cancel records they belong to the delete tick itself.
// IsAggressive is nil only on Cancel records.
type OrderRecord struct {
	SecurityID   string          `gorm:"primaryKey;size:16" json:"security_id"`
	BizIndex     int64           `gorm:"primaryKey;autoIncrement:false" json:"biz_index"`
	TickTime     int64           `gorm:"not null" json:"tick_time"`
	OrderNo      int64           `gorm:"not null;index" json:"order_no"`
	OrdType      OrdType         `gorm:"size:8;not null" json:"ord_type"`
	Side         Side            `gorm:"size:1;not null" json:"side"`
	Price        decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Qty          int64           `gorm:"not null" json:"qty"`
	IsAggressive *bool           `json:"is_aggressive"`
}

// TradeRecord is one row of the normalized trade table.
type TradeRecord struct {
	SecurityID string          `gorm:"primaryKey;size:16" json:"security_id"`
	BizIndex   int64           `gorm:"primaryKey;autoIncrement:false" json:"biz_index"`
	TickTime   int64           `gorm:"not null" json:"tick_time"`
	BidOrderNo int64           `gorm:"not null" json:"bid_order_no"`
	AskOrderNo int64           `gorm:"not null" json:"ask_order_no"`
	Price      decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Qty        int64           `gorm:"not null" json:"qty"`
	TradeMoney decimal.Decimal `gorm:"type:numeric;not null" json:"trade_money"`
	ActiveSide int8            `gorm:"not null" json:"active_side"`
}

// IsAuction reports whether the trade was matched in a call auction.
func (r *TradeRecord) IsAuction() bool {
	return r.ActiveSide == ActiveSideAuction
}
