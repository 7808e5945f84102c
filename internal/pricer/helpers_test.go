package pricer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gyeh/ascpricer/internal/model"
	"github.com/gyeh/ascpricer/internal/pricer"
	"github.com/gyeh/ascpricer/internal/refdata"
)

var (
	dateA = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	dateB = time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
)

// newTestPricer builds a pricer over a minimal 2025 Q1 reference tree:
//
//	AA: 10001 $100 A2 discountable (FF offset $20), 10002 $200 G2 flat,
//	    10003 $1000 A2 discountable (FF offset $200), 10004 $300 A2,
//	    10005 $50 A2, 10007 $100 H2 (wage exempt),
//	    31626 $2451.02 A2, 31625 $500 A2,
//	    20001 C5 denied, 30001 D5 unprocessable, 40001 L1 packaged,
//	    50001 C5 with a posted rate
//	BB: 90999 $75 K2, C1234 $500 J7, C1601 $0 J7
//	Code pairs: C1601+31626 @0.2173, C1601+31625 @0.0096
//	Wage index: 10000→1.0, 20000→1.5, 30000→1.1
func newTestPricer(t *testing.T) *pricer.Pricer {
	t.Helper()
	root := t.TempDir()
	qdir := filepath.Join(root, "2025", "20250101")
	if err := os.MkdirAll(qdir, 0o755); err != nil {
		t.Fatal(err)
	}
	normDir := filepath.Join(root, "normalized")
	if err := os.MkdirAll(normDir, 0o755); err != nil {
		t.Fatal(err)
	}

	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write(filepath.Join(qdir, "AA.csv"),
		"HCPCS Code,Short Descriptor,Subject to Multiple Procedure Discounting,January 2025 Payment Indicator,January 2025 Payment Rate\n"+
			"10001,Proc A,Y,A2,$100.00\n"+
			"10002,Proc B,N,G2,$200.00\n"+
			"10003,Device Proc,Y,A2,\"$1,000.00\"\n"+
			"10004,Proc D,Y,A2,$300.00\n"+
			"10005,Proc E,Y,A2,$50.00\n"+
			"10007,Flat Proc,Y,H2,$100.00\n"+
			"31626,Bronch Proc,Y,A2,\"$2,451.02\"\n"+
			"31625,Bronch Bx,Y,A2,$500.00\n"+
			"20001,Inpatient Only,N,C5,$0.00\n"+
			"30001,Deleted Code,N,D5,$0.00\n"+
			"40001,Packaged Vax,N,L1,$0.00\n"+
			"50001,Rate But Denied,N,C5,$200.00\n")
	write(filepath.Join(qdir, "BB.csv"),
		"HCPCS Code,Short Descriptor,Drug Pass-Through,January 2025 Payment Indicator,January 2025 Payment Rate\n"+
			"90999,Drug Ancillary,N,K2,$75.00\n"+
			"C1234,Pass-Through Device,N,J7,$500.00\n"+
			"C1601,Paired Device,N,J7,$0.00\n")
	write(filepath.Join(qdir, "FF.csv"),
		"HCPCS Code,Short Descriptor,Indicator,APC,Offset %,OPPS Rate,Offset %,Device Offset Amount\n"+
			"10001,Proc A,A2,101,20%,$200.00,20%,$20.00\n"+
			"10003,Device Proc,A2,103,20%,\"$1,000.00\",20%,$200.00\n")
	write(filepath.Join(root, "2025", "wage_index.csv"),
		"CBSA,WI25\n10000,1.0\n20000,1.5\n30000,1.1\n")
	write(filepath.Join(normDir, "code_pairs_2025.csv"),
		"device_hcpcs,procedure_hcpcs,device_modifier,procedure_modifier,percent_multiplier,effective_date,end_date\n"+
			"C1601,31626,,,0.2173,20250101,20261231\n"+
			"C1601,31625,,,0.0096,20250101,20261231\n")

	store := refdata.NewStore(root, zerolog.Nop())
	return pricer.New(store, zerolog.Nop())
}

func claim(lines ...model.ClaimLine) *model.Claim {
	return &model.Claim{
		ProviderCCN: "123456",
		ThruDate:    dateA,
		CBSA:        "10000",
		Lines:       lines,
	}
}

func line(hcpcs string, units int, modifiers ...string) model.ClaimLine {
	return model.ClaimLine{HCPCS: hcpcs, Units: units, Modifiers: modifiers, ServiceDate: &dateA}
}

func price(t *testing.T, p *pricer.Pricer, c *model.Claim) *model.ClaimResult {
	t.Helper()
	res, err := p.Price(c, pricer.Options{})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	return res
}

func priceWithMue(t *testing.T, p *pricer.Pricer, c *model.Claim, limits ...model.MueLimit) *model.ClaimResult {
	t.Helper()
	m := make(map[string]model.MueLimit, len(limits))
	for _, l := range limits {
		m[l.Code] = l
	}
	res, err := p.Price(c, pricer.Options{MueLimits: m})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	return res
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func wantAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func findLine(t *testing.T, res *model.ClaimResult, hcpcs string) *model.PricedLine {
	t.Helper()
	for i := range res.Lines {
		if res.Lines[i].HCPCS == hcpcs {
			return &res.Lines[i]
		}
	}
	t.Fatalf("no priced line for %s", hcpcs)
	return nil
}
