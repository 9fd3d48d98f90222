package storage

import (
	"testing"

	"github.com/shopspring/decimal"

	"ticksplit/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := Open(t.TempDir(), "20260126")
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func boolPtr(v bool) *bool { return &v }

func TestWriteAndReadOrders(t *testing.T) {
	s := setupTestStorage(t)

	records := []domain.OrderRecord{
		{
			SecurityID:   "600519",
			BizIndex:     100,
			TickTime:     93000100,
			OrderNo:      1001,
			OrdType:      domain.OrdTypeNew,
			Side:         domain.SideBuy,
			Price:        dec("10.0"),
			Qty:          1000,
			IsAggressive: boolPtr(true),
		},
		{
			SecurityID: "600519",
			BizIndex:   101,
			TickTime:   93000200,
			OrderNo:    1002,
			OrdType:    domain.OrdTypeCancel,
			Side:       domain.SideSell,
			Price:      dec("9.8"),
			Qty:        500,
			// IsAggressive stays nil on a Cancel.
		},
	}

	if err := s.WriteOrders(records, 500); err != nil {
		t.Fatalf("WriteOrders failed: %v", err)
	}

	got, err := s.OrdersBySecurity("600519")
	if err != nil {
		t.Fatalf("OrdersBySecurity failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d orders, want 2", len(got))
	}

	if got[0].IsAggressive == nil || !*got[0].IsAggressive {
		t.Error("New record lost its aggressiveness flag")
	}
	if got[1].IsAggressive != nil {
		t.Error("Cancel record must round-trip a null aggressiveness")
	}
	if !got[0].Price.Equal(dec("10.0")) {
		t.Errorf("price round-trip = %s, want 10.0", got[0].Price)
	}
}

func TestWriteAndReadTrades(t *testing.T) {
	s := setupTestStorage(t)

	records := []domain.TradeRecord{
		{
			SecurityID: "600519",
			BizIndex:   200,
			TickTime:   93001000,
			BidOrderNo: 1002,
			AskOrderNo: 2002,
			Price:      dec("60.0"),
			Qty:        600,
			TradeMoney: dec("36000.0"),
			ActiveSide: domain.ActiveSideBuy,
		},
	}

	if err := s.WriteTrades(records, 500); err != nil {
		t.Fatalf("WriteTrades failed: %v", err)
	}

	got, err := s.TradesBySecurity("600519")
	if err != nil {
		t.Fatalf("TradesBySecurity failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("read %d trades, want 1", len(got))
	}
	if got[0].ActiveSide != domain.ActiveSideBuy || !got[0].TradeMoney.Equal(dec("36000.0")) {
		t.Errorf("trade round-trip = %+v", got[0])
	}
}

func TestSummarize(t *testing.T) {
	s := setupTestStorage(t)

	orders := []domain.OrderRecord{
		{SecurityID: "600519", BizIndex: 1, OrdType: domain.OrdTypeNew, Side: domain.SideBuy, Price: dec("10"), Qty: 100, IsAggressive: boolPtr(true)},
		{SecurityID: "600519", BizIndex: 2, OrdType: domain.OrdTypeNew, Side: domain.SideSell, Price: dec("10"), Qty: 100, IsAggressive: boolPtr(false)},
		{SecurityID: "600519", BizIndex: 3, OrdType: domain.OrdTypeCancel, Side: domain.SideBuy, Price: dec("10"), Qty: 100},
	}
	trades := []domain.TradeRecord{
		{SecurityID: "600519", BizIndex: 4, Price: dec("10"), Qty: 100, TradeMoney: dec("1000"), ActiveSide: domain.ActiveSideBuy},
	}

	if err := s.WriteOrders(orders, 500); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteTrades(trades, 500); err != nil {
		t.Fatal(err)
	}

	sum, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if sum.Orders != 3 || sum.Trades != 1 {
		t.Errorf("counts = %d orders / %d trades, want 3/1", sum.Orders, sum.Trades)
	}
	if sum.NewOrders != 2 || sum.CancelOrders != 1 {
		t.Errorf("new/cancel = %d/%d, want 2/1", sum.NewOrders, sum.CancelOrders)
	}
	if sum.TakerOrders != 1 || sum.MakerOrders != 1 {
		t.Errorf("taker/maker = %d/%d, want 1/1", sum.TakerOrders, sum.MakerOrders)
	}
}

func TestEmptyWriteIsNoop(t *testing.T) {
	s := setupTestStorage(t)

	if err := s.WriteOrders(nil, 500); err != nil {
		t.Fatalf("empty WriteOrders failed: %v", err)
	}
	if err := s.WriteTrades(nil, 500); err != nil {
		t.Fatalf("empty WriteTrades failed: %v", err)
	}
}
