package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRawTickValidate(t *testing.T) {
	valid := RawTick{
		SecurityID: "600519",
		BizIndex:   100,
		TickTime:   93000100,
		Kind:       KindTrade,
		BuyOrderNo: 1001,
		Price:      dec("10.0"),
		Qty:        1000,
		Flag:       FlagBuy,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid tick rejected: %v", err)
	}

	t.Run("unknown kind", func(t *testing.T) {
		tick := valid
		tick.Kind = "X"
		err := tick.Validate()
		if !errors.Is(err, ErrUnknownKind) {
			t.Errorf("err = %v, want ErrUnknownKind", err)
		}
		if !IsMalformed(err) {
			t.Error("expected a TickError")
		}
	})

	t.Run("missing initiator order no", func(t *testing.T) {
		tick := valid
		tick.BuyOrderNo = 0
		if err := tick.Validate(); !errors.Is(err, ErrMissingOrderNo) {
			t.Errorf("err = %v, want ErrMissingOrderNo", err)
		}
	})

	t.Run("auction trade needs no initiator", func(t *testing.T) {
		tick := valid
		tick.Flag = FlagAuction
		tick.BuyOrderNo = 0
		tick.SellOrderNo = 0
		if err := tick.Validate(); err != nil {
			t.Errorf("auction trade rejected: %v", err)
		}
	})

	t.Run("negative qty", func(t *testing.T) {
		tick := valid
		tick.Qty = -5
		if err := tick.Validate(); !errors.Is(err, ErrNegativeQty) {
			t.Errorf("err = %v, want ErrNegativeQty", err)
		}
	})

	t.Run("add with auction flag", func(t *testing.T) {
		tick := valid
		tick.Kind = KindAdd
		tick.Flag = FlagAuction
		if err := tick.Validate(); !errors.Is(err, ErrInvalidFlag) {
			t.Errorf("err = %v, want ErrInvalidFlag", err)
		}
	})
}

func TestOrderRef(t *testing.T) {
	tick := RawTick{
		BizIndex:    7,
		Kind:        KindDelete,
		BuyOrderNo:  11,
		SellOrderNo: 22,
	}

	tick.Flag = FlagBuy
	no, side, err := tick.OrderRef()
	if err != nil || no != 11 || side != SideBuy {
		t.Errorf("buy ref = (%d, %s, %v), want (11, B, nil)", no, side, err)
	}

	tick.Flag = FlagSell
	no, side, err = tick.OrderRef()
	if err != nil || no != 22 || side != SideSell {
		t.Errorf("sell ref = (%d, %s, %v), want (22, S, nil)", no, side, err)
	}
}

func TestNotional(t *testing.T) {
	tick := RawTick{
		Price:      dec("10.0"),
		Qty:        1000,
		TradeMoney: dec("10500.0"),
	}
	if got := tick.Notional(); !got.Equal(dec("10500.0")) {
		t.Errorf("Notional with trade money = %s, want 10500.0", got)
	}

	tick.TradeMoney = decimal.Zero
	if got := tick.Notional(); !got.Equal(dec("10000.0")) {
		t.Errorf("computed Notional = %s, want 10000.0", got)
	}
}
