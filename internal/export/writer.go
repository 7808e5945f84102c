// Package export writes priced claim results to Parquet for downstream
// analysis.
package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/ascpricer/internal/model"
)

// ResultRow mirrors the Parquet schema for one priced claim line. Money
// fields are float64 matching Parquet representation; the engine's exact
// decimal values are authoritative.
type ResultRow struct {
	RunID       string `parquet:"run_id"`
	ProviderCCN string `parquet:"provider_ccn"`
	CBSA        string `parquet:"cbsa"`
	ThruDate    string `parquet:"thru_date"`

	LineNumber       int32    `parquet:"line_number"`
	HCPCS            string   `parquet:"hcpcs"`
	PaymentIndicator *string  `parquet:"payment_indicator,optional"`
	Status           string   `parquet:"status"`
	Reason           *string  `parquet:"reason,optional"`
	Detail           *string  `parquet:"detail,optional"`
	Units            int32    `parquet:"units"`
	WageIndex        float64  `parquet:"wage_index"`
	PaymentRate      float64  `parquet:"payment_rate"`
	AdjustedRate     float64  `parquet:"adjusted_rate"`
	DeviceOffset     *float64 `parquet:"device_offset,optional"`
	CodePairOffset   *float64 `parquet:"code_pair_offset,optional"`
	CodePairDevice   *string  `parquet:"code_pair_device,optional"`
	Tier             *string  `parquet:"tier,optional"`
	DiscountPercent  float64  `parquet:"discount_percent"`
	LinePayment      float64  `parquet:"line_payment"`
	LineCoinsurance  float64  `parquet:"line_coinsurance"`
	LineTotal        float64  `parquet:"line_total"`
}

// Rows flattens a priced claim into one ResultRow per line.
func Rows(claim *model.Claim, result *model.ClaimResult) []ResultRow {
	rows := make([]ResultRow, 0, len(result.Lines))
	for i := range result.Lines {
		pl := &result.Lines[i]
		row := ResultRow{
			RunID:           result.RunID,
			ProviderCCN:     claim.ProviderCCN,
			CBSA:            result.CBSA,
			ThruDate:        claim.ThruDate.Format("2006-01-02"),
			LineNumber:      int32(pl.LineNumber),
			HCPCS:           pl.HCPCS,
			Status:          string(pl.Status),
			Units:           int32(pl.Units),
			WageIndex:       pl.WageIndex.InexactFloat64(),
			PaymentRate:     pl.PaymentRate.InexactFloat64(),
			AdjustedRate:    pl.AdjustedRate.InexactFloat64(),
			DiscountPercent: pl.DiscountPercent.InexactFloat64(),
			LinePayment:     pl.LinePayment.InexactFloat64(),
			LineCoinsurance: pl.LineCoinsurance.InexactFloat64(),
			LineTotal:       pl.LineTotal.InexactFloat64(),
		}
		row.PaymentIndicator = optStr(pl.PaymentIndicator)
		row.Reason = optStr(string(pl.Reason))
		row.Detail = optStr(pl.Detail)
		row.CodePairDevice = optStr(pl.CodePairDevice)
		row.Tier = optStr(string(pl.Tier))
		if pl.DeviceOffset.IsPositive() {
			v := pl.DeviceOffset.InexactFloat64()
			row.DeviceOffset = &v
		}
		if pl.CodePairOffset.IsPositive() {
			v := pl.CodePairOffset.InexactFloat64()
			row.CodePairOffset = &v
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteFile writes the priced claim to path as a Parquet file.
func WriteFile(path string, claim *model.Claim, result *model.ClaimResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[ResultRow](f)
	if _, err := w.Write(Rows(claim, result)); err != nil {
		f.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
