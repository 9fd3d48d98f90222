// Package session classifies HHMMSSmmm tick times against the Shanghai
// trading calendar. Shanghai has no closing call auction: afternoon
// continuous trading runs through 15:00, unlike Shenzhen where
// 14:57-15:00 is a closing auction.
package session

import "fmt"

// Trading windows in HHMMSSmmm. Start inclusive, end exclusive.
const (
	MorningStart   int64 = 93000000  // 09:30:00.000
	MorningEnd     int64 = 113000000 // 11:30:00.000
	AfternoonStart int64 = 130000000 // 13:00:00.000
	AfternoonEnd   int64 = 150000000 // 15:00:00.000

	openAuctionStart int64 = 91500000 // 09:15:00.000
	openAuctionEnd   int64 = 92500000 // 09:25:00.000
)

// Phase names returned by Classify.
const (
	PhaseClosed              = "closed"
	PhaseMorningAuction      = "morning_auction"
	PhaseSilent              = "silent_period"
	PhaseMorningContinuous   = "morning_continuous"
	PhaseLunchBreak          = "lunch_break"
	PhaseAfternoonContinuous = "afternoon_continuous"
)

// IsContinuous reports whether tickTime falls inside a continuous
// trading window. 14:57 is inside; the 15:00 close itself is not.
func IsContinuous(tickTime int64) bool {
	if tickTime >= MorningStart && tickTime < MorningEnd {
		return true
	}
	if tickTime >= AfternoonStart && tickTime < AfternoonEnd {
		return true
	}
	return false
}

// Classify returns the trading phase a tick time falls into.
func Classify(tickTime int64) string {
	switch {
	case tickTime < openAuctionStart:
		return PhaseClosed
	case tickTime < openAuctionEnd:
		return PhaseMorningAuction
	case tickTime < MorningStart:
		return PhaseSilent
	case tickTime < MorningEnd:
		return PhaseMorningContinuous
	case tickTime < AfternoonStart:
		return PhaseLunchBreak
	case tickTime < AfternoonEnd:
		return PhaseAfternoonContinuous
	default:
		return PhaseClosed
	}
}

// Split decomposes a HHMMSSmmm value into its components.
func Split(tickTime int64) (hour, minute, second, milli int) {
	milli = int(tickTime % 1000)
	tickTime /= 1000
	second = int(tickTime % 100)
	tickTime /= 100
	minute = int(tickTime % 100)
	hour = int(tickTime / 100)
	return
}

// Format renders a HHMMSSmmm value as "HH:MM:SS.mmm" for logs.
func Format(tickTime int64) string {
	h, m, s, ms := Split(tickTime)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
