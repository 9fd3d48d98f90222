package engine

import (
	"fmt"

	"ticksplit/internal/domain"
)

// Reconciliation checks. These run in the verification layer and in
// batch reporting, never in the replay hot path: a failed check is a
// data-quality signal, not a processing error.

// ContinuityReport describes gaps in a security-day's BizIndex run.
// The exchange assigns BizIndex contiguously per security-day, so a
// gap means dropped upstream data.
type ContinuityReport struct {
	Total    int     // records observed
	Min      int64   // smallest BizIndex
	Max      int64   // largest BizIndex
	Expected int64   // max - min + 1
	GapCount int64   // missing sequence numbers
	Gaps     []int64 // first few missing values, for logs
}

// Continuous reports whether the run had no gaps.
func (r ContinuityReport) Continuous() bool {
	return r.GapCount == 0
}

func (r ContinuityReport) String() string {
	if r.Continuous() {
		return fmt.Sprintf("contiguous: %d records [%d..%d]", r.Total, r.Min, r.Max)
	}
	return fmt.Sprintf("%d gaps in [%d..%d] (%d of %d present)", r.GapCount, r.Min, r.Max, r.Total, r.Expected)
}

// maxGapExamples bounds the gap list carried in a report.
const maxGapExamples = 10

// CheckContinuity scans a raw security-day for BizIndex gaps.
// Gaps are reported, never fatal.
func CheckContinuity(ticks []domain.RawTick) ContinuityReport {
	if len(ticks) == 0 {
		return ContinuityReport{}
	}

	seen := make(map[int64]struct{}, len(ticks))
	min, max := ticks[0].BizIndex, ticks[0].BizIndex
	for _, t := range ticks {
		seen[t.BizIndex] = struct{}{}
		if t.BizIndex < min {
			min = t.BizIndex
		}
		if t.BizIndex > max {
			max = t.BizIndex
		}
	}

	report := ContinuityReport{
		Total:    len(seen),
		Min:      min,
		Max:      max,
		Expected: max - min + 1,
	}
	report.GapCount = report.Expected - int64(report.Total)

	if report.GapCount > 0 {
		for i := min; i <= max && len(report.Gaps) < maxGapExamples; i++ {
			if _, ok := seen[i]; !ok {
				report.Gaps = append(report.Gaps, i)
			}
		}
	}

	return report
}

// ChannelTotals carries quantity aggregates per (side, origin)
// channel, accumulated independently from the two accumulator fields
// at settlement time.
type ChannelTotals struct {
	AggressiveBuy  SideChannel
	AggressiveSell SideChannel
	PassiveBuy     SideChannel
	PassiveSell    SideChannel
}

// SideChannel splits a channel's settled quantity into the part that
// executed and the part that rested on the book.
type SideChannel struct {
	TradedQty  int64
	RestingQty int64
}

// Initiated is the channel's total originated quantity.
func (c SideChannel) Initiated() int64 {
	return c.TradedQty + c.RestingQty
}

func (t *ChannelTotals) add(side domain.Side, aggressive bool, tradedQty, restingQty int64) {
	ch := t.channel(side, aggressive)
	ch.TradedQty += tradedQty
	ch.RestingQty += restingQty
}

func (t *ChannelTotals) channel(side domain.Side, aggressive bool) *SideChannel {
	if aggressive {
		if side == domain.SideBuy {
			return &t.AggressiveBuy
		}
		return &t.AggressiveSell
	}
	if side == domain.SideBuy {
		return &t.PassiveBuy
	}
	return &t.PassiveSell
}

// VerifyConservation checks the additive identity that the emitted New
// records must satisfy against the independently accumulated channel
// aggregates: per (side, origin), the summed record quantity equals
// filled-then-settled plus rested-then-settled quantity.
func VerifyConservation(orders []domain.OrderRecord, totals ChannelTotals) error {
	var emitted ChannelTotals
	for i := range orders {
		o := &orders[i]
		if o.OrdType != domain.OrdTypeNew || o.IsAggressive == nil {
			continue
		}
		ch := emitted.channel(o.Side, *o.IsAggressive)
		ch.TradedQty += o.Qty // summed whole; compared via Initiated below
	}

	checks := []struct {
		name string
		got  int64
		want int64
	}{
		{"aggressive buy", emitted.AggressiveBuy.Initiated(), totals.AggressiveBuy.Initiated()},
		{"aggressive sell", emitted.AggressiveSell.Initiated(), totals.AggressiveSell.Initiated()},
		{"passive buy", emitted.PassiveBuy.Initiated(), totals.PassiveBuy.Initiated()},
		{"passive sell", emitted.PassiveSell.Initiated(), totals.PassiveSell.Initiated()},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("conservation violated for %s channel: emitted qty %d, settled traded+resting %d", c.name, c.got, c.want)
		}
	}
	return nil
}
