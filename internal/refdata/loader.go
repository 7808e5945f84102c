package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyeh/ascpricer/internal/normalize"
)

// loadQuarter parses one quarter directory into a Bundle. Addendum BB is
// loaded after AA so BB wins when a code appears in both. The wage index
// file lives at the year level; normalized code pairs live under
// <dataRoot>/normalized.
func loadQuarter(quarterPath, dataRoot string, start time.Time) (*Bundle, error) {
	b := &Bundle{
		Quarter:       start,
		Rates:         make(map[string]RateInfo),
		DeviceOffsets: make(map[string]decimal.Decimal),
		WageIndexes:   make(map[string]decimal.Decimal),
		CodePairs:     make(map[PairKey][]CodePair),
	}

	if err := loadRates(findFile(quarterPath, "AA"), AddendumSurgical, b.Rates); err != nil {
		return nil, fmt.Errorf("addendum AA: %w", err)
	}
	if err := loadRates(findFile(quarterPath, "BB"), AddendumAncillary, b.Rates); err != nil {
		return nil, fmt.Errorf("addendum BB: %w", err)
	}
	if err := loadDeviceOffsets(findFile(quarterPath, "FF"), b.DeviceOffsets); err != nil {
		return nil, fmt.Errorf("addendum FF: %w", err)
	}

	yearDir := filepath.Dir(quarterPath)
	if err := loadWageIndex(findFile(yearDir, "wage_index"), b.WageIndexes); err != nil {
		return nil, fmt.Errorf("wage index: %w", err)
	}

	if err := loadCodePairs(dataRoot, start.Year(), b.CodePairs); err != nil {
		return nil, fmt.Errorf("code pairs: %w", err)
	}
	return b, nil
}

// findFile returns the first existing <base>.csv or <base>.txt in dir, or
// "" when neither exists. Quarterly drops switch between the two.
func findFile(dir, base string) string {
	for _, ext := range []string{".csv", ".txt"} {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// headerTable reads a CSV/TSV file whose real header row is the first line
// containing the keyword; CMS addenda carry preamble rows above it. The
// delimiter is sniffed from the header line. Returns the header fields and
// data rows.
func headerTable(path, keyword string) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, keyword) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil, fmt.Errorf("%s: header row with %q not found", path, keyword)
	}

	delimiter := ','
	if strings.Contains(lines[headerIdx], "\t") {
		delimiter = '\t'
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty table", path)
	}
	return records[0], records[1:], nil
}

// cell returns row[i] or "" when the row is short. Addenda rows often trail
// off before the last column.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// findColumn returns the index of the first header containing any of the
// substrings (case-insensitive), or -1.
func findColumn(header []string, substrings ...string) int {
	for i, h := range header {
		lower := strings.ToLower(h)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return i
			}
		}
	}
	return -1
}

// loadRates parses an Addendum AA/BB file into the rates table. The column
// titles shift every quarter ("January 2025 Payment Rate" and similar), so
// columns are matched by substring.
func loadRates(path, addendum string, rates map[string]RateInfo) error {
	if path == "" {
		return nil
	}
	header, rows, err := headerTable(path, "HCPCS")
	if err != nil {
		return err
	}

	codeCol := findColumn(header, "hcpcs")
	rateCol := findColumn(header, "payment rate")
	indCol := findColumn(header, "payment indicator", "comment indicator")
	discCol := findColumn(header, "discounting")

	for _, row := range rows {
		hcpcs := normalize.HCPCS(cell(row, codeCol))
		if hcpcs == "" {
			continue
		}
		rates[hcpcs] = RateInfo{
			Rate:              normalize.Currency(cell(row, rateCol)),
			Indicator:         cell(row, indCol),
			SubjectToDiscount: strings.EqualFold(cell(row, discCol), "Y"),
			Addendum:          addendum,
		}
	}
	return nil
}

// loadDeviceOffsets parses an Addendum FF file. FF repeats "Offset %"
// columns; only the "Device Offset Amount" dollar column matters here.
func loadDeviceOffsets(path string, offsets map[string]decimal.Decimal) error {
	if path == "" {
		return nil
	}
	header, rows, err := headerTable(path, "HCPCS")
	if err != nil {
		return err
	}

	codeCol := findColumn(header, "hcpcs")
	amountCol := findColumn(header, "device offset amount")

	for _, row := range rows {
		hcpcs := normalize.HCPCS(cell(row, codeCol))
		if hcpcs == "" {
			continue
		}
		if amount := normalize.Currency(cell(row, amountCol)); amount.IsPositive() {
			offsets[hcpcs] = amount
		}
	}
	return nil
}

// loadWageIndex parses the yearly CBSA wage index file. The factor column
// is WIyy ("WI26") in newer files and "Wage Index" in older ones.
func loadWageIndex(path string, indexes map[string]decimal.Decimal) error {
	if path == "" {
		return nil
	}
	header, rows, err := headerTable(path, "CBSA")
	if err != nil {
		return err
	}

	cbsaCol := findColumn(header, "cbsa")
	factorCol := -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if len(h) == 4 && strings.HasPrefix(strings.ToUpper(h), "WI") {
			factorCol = i
			break
		}
	}
	if factorCol < 0 {
		factorCol = findColumn(header, "wage index")
	}

	for _, row := range rows {
		cbsa := cell(row, cbsaCol)
		if cbsa == "" {
			continue
		}
		if factor := normalize.Ratio(cell(row, factorCol)); factor.IsPositive() {
			indexes[cbsa] = factor
		}
	}
	return nil
}

// loadCodePairs reads the normalized device/procedure pair table. The
// year-specific file wins; code_pairs_combined.csv is the fallback for
// years normalized before the per-year split.
func loadCodePairs(dataRoot string, year int, pairs map[PairKey][]CodePair) error {
	dir := filepath.Join(dataRoot, "normalized")
	path := filepath.Join(dir, fmt.Sprintf("code_pairs_%d.csv", year))
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(dir, "code_pairs_combined.csv")
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	header, rows, err := headerTable(path, "device_hcpcs")
	if err != nil {
		return err
	}

	deviceCol := findColumn(header, "device_hcpcs")
	procCol := findColumn(header, "procedure_hcpcs")
	devModCol := findColumn(header, "device_modifier")
	procModCol := findColumn(header, "procedure_modifier")
	multCol := findColumn(header, "percent_multiplier")
	effCol := findColumn(header, "effective_date")
	endCol := findColumn(header, "end_date")

	for _, row := range rows {
		device := normalize.HCPCS(cell(row, deviceCol))
		procedure := normalize.HCPCS(cell(row, procCol))
		if device == "" || procedure == "" {
			continue
		}
		key := PairKey{Device: device, Procedure: procedure}
		pairs[key] = append(pairs[key], CodePair{
			DeviceModifier:    cell(row, devModCol),
			ProcedureModifier: cell(row, procModCol),
			Multiplier:        normalize.Ratio(cell(row, multCol)),
			EffectiveDate:     normalize.Date(cell(row, effCol)),
			EndDate:           normalize.Date(cell(row, endCol)),
		})
	}
	return nil
}
