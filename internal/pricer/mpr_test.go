package pricer_test

import (
	"testing"

	"github.com/gyeh/ascpricer/internal/model"
)

func TestMultipleProcedureRanking(t *testing.T) {
	p := newTestPricer(t)
	res := price(t, p, claim(
		line("10001", 1), // $100, pool
		line("10004", 1), // $300, pool, highest rate
		line("10005", 1), // $50, pool
		line("10002", 1), // $200, not subject to discounting
	))

	cases := []struct {
		hcpcs      string
		tier       model.DiscountTier
		discounted bool
		total      string
	}{
		{"10004", model.TierPrimary, false, "300"},
		{"10001", model.TierSecondary, true, "50"},
		{"10005", model.TierSecondary, true, "25"},
		{"10002", model.TierExempt, false, "200"},
	}
	for _, tc := range cases {
		pl := findLine(t, res, tc.hcpcs)
		if pl.Tier != tc.tier || pl.DiscountApplied != tc.discounted {
			t.Errorf("%s: tier=%s discounted=%v, want %s/%v", tc.hcpcs, pl.Tier, pl.DiscountApplied, tc.tier, tc.discounted)
		}
		wantAmount(t, tc.hcpcs+" LineTotal", pl.LineTotal, tc.total)
	}

	wantAmount(t, "Total", res.Total, "575")
	wantAmount(t, "TotalPayment", res.TotalPayment, "460")
	wantAmount(t, "TotalCoinsurance", res.TotalCoinsurance, "115")
	wantAmount(t, "secondary DiscountPercent", findLine(t, res, "10001").DiscountPercent, "0.5")
	wantAmount(t, "exempt DiscountPercent", findLine(t, res, "10002").DiscountPercent, "1")
}

func TestPrimaryLineExtraUnitsDiscounted(t *testing.T) {
	p := newTestPricer(t)
	res := price(t, p, claim(line("10001", 2)))

	pl := findLine(t, res, "10001")
	if pl.Tier != model.TierPrimary {
		t.Fatalf("Tier = %s, want primary", pl.Tier)
	}
	// First unit 100%, second unit 50%.
	wantAmount(t, "LineTotal", pl.LineTotal, "150")
	wantAmount(t, "DiscountPercent", pl.DiscountPercent, "0.75")
	wantAmount(t, "LinePayment", pl.LinePayment, "120")
	wantAmount(t, "LineCoinsurance", pl.LineCoinsurance, "30")
}

func TestCodePairOffsetReducesProcedure(t *testing.T) {
	p := newTestPricer(t)
	res := price(t, p, claim(line("C1601", 1), line("31626", 1)))

	pl := findLine(t, res, "31626")
	// 2451.02 * (1 - 0.2173)
	wantAmount(t, "AdjustedRate", pl.AdjustedRate, "1918.413354")
	wantAmount(t, "CodePairOffset", pl.CodePairOffset, "532.606646")
	if pl.CodePairDevice != "C1601" {
		t.Errorf("CodePairDevice = %q, want C1601", pl.CodePairDevice)
	}
	wantAmount(t, "LineTotal", pl.LineTotal, "1918.41")

	// The zero-rate device line itself is packaged.
	if findLine(t, res, "C1601").Status != model.StatusPackaged {
		t.Error("device line not packaged")
	}
}

func TestCodePairDeviceUnitBudget(t *testing.T) {
	p := newTestPricer(t)

	res := price(t, p, claim(line("C1601", 1), line("31626", 1), line("31625", 1)))
	if findLine(t, res, "31626").CodePairOffset.IsZero() {
		t.Error("31626 did not receive the device offset")
	}
	pl := findLine(t, res, "31625")
	if !pl.CodePairOffset.IsZero() {
		t.Errorf("31625 offset = %s, one device unit funds one offset", pl.CodePairOffset)
	}
	wantAmount(t, "31625 AdjustedRate", pl.AdjustedRate, "500")

	// Two device units fund both procedures.
	res = price(t, p, claim(line("C1601", 2), line("31626", 1), line("31625", 1)))
	wantAmount(t, "31625 AdjustedRate", findLine(t, res, "31625").AdjustedRate, "495.2")
	wantAmount(t, "31625 CodePairOffset", findLine(t, res, "31625").CodePairOffset, "4.8")
}

func TestCodePairOutsideEffectiveRange(t *testing.T) {
	p := newTestPricer(t)
	c := claim(line("C1601", 1), line("31626", 1))
	// Past the pair's end date; still resolves to the latest bundle.
	c.ThruDate = dateA.AddDate(3, 0, 0)

	res := price(t, p, c)
	pl := findLine(t, res, "31626")
	if !pl.CodePairOffset.IsZero() {
		t.Errorf("CodePairOffset = %s, want none outside the effective range", pl.CodePairOffset)
	}
	wantAmount(t, "AdjustedRate", pl.AdjustedRate, "2451.02")
}

func TestTotalsAreExactSums(t *testing.T) {
	p := newTestPricer(t)
	c := claim(
		line("31626", 1),
		line("10004", 1),
		line("10001", 2),
		line("10005", 1),
		line("90999", 1),
	)
	c.CBSA = "30000" // odd cents via the 1.1 factor

	res := price(t, p, c)

	payment, coinsurance, total := dec("0"), dec("0"), dec("0")
	for i := range res.Lines {
		pl := &res.Lines[i]
		if !pl.LinePayment.Add(pl.LineCoinsurance).Equal(pl.LineTotal) {
			t.Errorf("%s: payment %s + coinsurance %s != total %s",
				pl.HCPCS, pl.LinePayment, pl.LineCoinsurance, pl.LineTotal)
		}
		payment = payment.Add(pl.LinePayment)
		coinsurance = coinsurance.Add(pl.LineCoinsurance)
		total = total.Add(pl.LineTotal)
	}
	if !res.TotalPayment.Equal(payment) || !res.TotalCoinsurance.Equal(coinsurance) || !res.Total.Equal(total) {
		t.Errorf("claim totals %s/%s/%s, want %s/%s/%s",
			res.TotalPayment, res.TotalCoinsurance, res.Total, payment, coinsurance, total)
	}
	if !res.TotalPayment.Add(res.TotalCoinsurance).Equal(res.Total) {
		t.Errorf("payment %s + coinsurance %s != total %s", res.TotalPayment, res.TotalCoinsurance, res.Total)
	}
}
