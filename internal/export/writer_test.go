package export

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"github.com/gyeh/ascpricer/internal/model"
)

func TestWriteFileRoundTrip(t *testing.T) {
	claim := &model.Claim{
		ProviderCCN: "123456",
		ThruDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	result := &model.ClaimResult{
		RunID:     "run-1",
		CBSA:      "10000",
		WageIndex: decimal.RequireFromString("1.1"),
		Lines: []model.PricedLine{
			{
				LineNumber:       1,
				HCPCS:            "10003",
				PaymentIndicator: "A2",
				Status:           model.StatusPayable,
				Units:            1,
				WageIndex:        decimal.RequireFromString("1.1"),
				PaymentRate:      decimal.RequireFromString("1000"),
				AdjustedRate:     decimal.RequireFromString("1050"),
				Tier:             model.TierPrimary,
				LinePayment:      decimal.RequireFromString("840"),
				LineCoinsurance:  decimal.RequireFromString("210"),
				LineTotal:        decimal.RequireFromString("1050"),
			},
			{
				LineNumber: 2,
				HCPCS:      "20001",
				Status:     model.StatusDenied,
				Reason:     model.ReasonIndicatorDenied,
				Detail:     "indicator C5: denied",
			},
		},
	}

	path := filepath.Join(t.TempDir(), "result.parquet")
	if err := WriteFile(path, claim, result); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	raw, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	stat, err := raw.Stat()
	if err != nil {
		t.Fatal(err)
	}
	f, err := parquet.OpenFile(raw, stat.Size())
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	r := parquet.NewGenericReader[ResultRow](f)
	defer r.Close()

	rows := make([]ResultRow, 4)
	n, err := r.Read(rows)
	if err != nil && err != io.EOF {
		t.Fatalf("read rows: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows = %d, want 2", n)
	}

	first := rows[0]
	if first.RunID != "run-1" || first.HCPCS != "10003" || first.ThruDate != "2025-01-15" {
		t.Errorf("first row: %+v", first)
	}
	if first.LineTotal != 1050 || first.LinePayment != 840 {
		t.Errorf("first row amounts: total=%v payment=%v", first.LineTotal, first.LinePayment)
	}
	if first.Tier == nil || *first.Tier != "primary" {
		t.Errorf("first row tier: %v", first.Tier)
	}
	if first.Reason != nil {
		t.Errorf("payable line has reason %q", *first.Reason)
	}

	second := rows[1]
	if second.Status != "denied" || second.Reason == nil || *second.Reason != "INDICATOR_DENIED" {
		t.Errorf("second row: %+v", second)
	}
	if second.PaymentIndicator != nil {
		t.Errorf("denied uncovered line has indicator %q", *second.PaymentIndicator)
	}
}
