package cmd

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/adpulse/internal/dataset"
	"github.com/theirongolddev/adpulse/internal/logging"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	"github.com/sirupsen/logrus"
)

func TestCampaignFilterFromFlags(t *testing.T) {
	flagPlatform, flagStatus, flagCountry, flagAllCountries = "Shopee", "active", "thailand", false
	f, err := campaignFilter()
	if err != nil {
		t.Fatal(err)
	}
	if f.Platform != model.PlatformShopee || f.Status != model.StatusActive || f.Country != model.Thailand {
		t.Fatalf("unexpected filter %+v", f)
	}

	flagAllCountries = true
	f, err = campaignFilter()
	if err != nil {
		t.Fatal(err)
	}
	if f.Country != model.CountryAll {
		t.Fatalf("--all-countries should clear the market, got %s", f.Country)
	}

	flagPlatform = "amazon"
	if _, err := campaignFilter(); err == nil {
		t.Fatal("unknown platform should fail")
	}
}

func TestSelectedCountryRejectsAll(t *testing.T) {
	flagCountry = "all"
	if _, err := selectedCountry(); err == nil {
		t.Fatal("all should be rejected for per-market reports")
	}
	flagCountry = "Malaysia"
	id, err := selectedCountry()
	if err != nil || id != model.Malaysia {
		t.Fatalf("selectedCountry = %s, %v", id, err)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"daemon", "--addr", ":9000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestValidateHorizon(t *testing.T) {
	for _, s := range []string{"0", "6", " 36 "} {
		if err := validateHorizon(s); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
	for _, s := range []string{"-1", "37", "six"} {
		if validateHorizon(s) == nil {
			t.Fatalf("%q should be rejected", s)
		}
	}
}

func TestTUILogging(t *testing.T) {
	t.Cleanup(func() { _ = logging.Setup(logging.DefaultLevel, "text", nil) })

	if err := logging.Setup("debug", "text", nil); err != nil {
		t.Fatal(err)
	}
	if err := tuiLogging("debug"); err != nil {
		t.Fatal(err)
	}
	if got := logging.L().GetLevel(); got != logrus.DebugLevel {
		t.Fatalf("explicit level overridden: %s", got)
	}

	if err := tuiLogging(""); err != nil {
		t.Fatal(err)
	}
	if got := logging.L().GetLevel(); got != logrus.ErrorLevel {
		t.Fatalf("level = %s, want error", got)
	}
}

func TestProductRows(t *testing.T) {
	ds := dataset.Builtin()
	tot := pipeline.ProductTotals(ds)

	rows := categoryRows(ds.Categories, tot)
	if len(rows) != len(ds.Categories)+2 {
		t.Fatalf("got %d category rows", len(rows))
	}
	if rows[3][0] != "Enterprise *" {
		t.Fatalf("lead category not marked: %q", rows[3][0])
	}
	last := rows[len(rows)-1]
	if last[0] != "Total" || last[1] != "$4,530,000" || last[3] != "100%" {
		t.Fatalf("unexpected total row %v", last)
	}

	rows = partnerRows(ds.Partners, tot)
	if rows[2][0] != "Partner C *" {
		t.Fatalf("top partner not marked: %q", rows[2][0])
	}
	if got := rows[len(rows)-1][1]; got != "$1,150,000" {
		t.Fatalf("partner total = %q", got)
	}
}
