package engine

import (
	"sort"

	"ticksplit/internal/domain"
)

// Emission ordering. Multiple distinct ticks can share a millisecond
// timestamp, so every sort uses BizIndex as the authoritative second
// key. The sorts are stable: applying them to already-sorted output
// leaves it byte-identical.

// SortOrders sorts one security's order records by (TickTime, BizIndex).
func SortOrders(records []domain.OrderRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].TickTime != records[j].TickTime {
			return records[i].TickTime < records[j].TickTime
		}
		return records[i].BizIndex < records[j].BizIndex
	})
}

// SortTrades sorts one security's trade records by (TickTime, BizIndex).
func SortTrades(records []domain.TradeRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].TickTime != records[j].TickTime {
			return records[i].TickTime < records[j].TickTime
		}
		return records[i].BizIndex < records[j].BizIndex
	})
}

// SortOrdersMarket sorts a full-market order table by
// (SecurityID, TickTime, BizIndex). Used only after every contributing
// replay has drained its store.
func SortOrdersMarket(records []domain.OrderRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SecurityID != records[j].SecurityID {
			return records[i].SecurityID < records[j].SecurityID
		}
		if records[i].TickTime != records[j].TickTime {
			return records[i].TickTime < records[j].TickTime
		}
		return records[i].BizIndex < records[j].BizIndex
	})
}

// SortTradesMarket sorts a full-market trade table by
// (SecurityID, TickTime, BizIndex).
func SortTradesMarket(records []domain.TradeRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SecurityID != records[j].SecurityID {
			return records[i].SecurityID < records[j].SecurityID
		}
		if records[i].TickTime != records[j].TickTime {
			return records[i].TickTime < records[j].TickTime
		}
		return records[i].BizIndex < records[j].BizIndex
	})
}
