package dataset

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// fileDoc mirrors the dataset file layout. Rows stay loosely typed so that
// field errors can be reported with their position.
type fileDoc struct {
	Country  []countryDoc     `toml:"country"`
	Campaign []map[string]any `toml:"campaign"`
	Budget   []map[string]any `toml:"budget"`
	Region   []map[string]any `toml:"region"`
	Channel  []map[string]any `toml:"channel"`

	Conversion []map[string]any `toml:"conversion"`
	Cart       *cartDoc         `toml:"cart"`
	Product    []map[string]any `toml:"product"`
	Category   []map[string]any `toml:"category"`
	License    []map[string]any `toml:"license"`
	Competitor []map[string]any `toml:"competitor"`
	Partner    []map[string]any `toml:"partner"`
}

type cartDoc struct {
	AbandonmentRate any              `toml:"abandonment_rate"`
	RecoveryRate    any              `toml:"recovery_rate"`
	Reason          []map[string]any `toml:"reason"`
}

type countryDoc struct {
	ID      string                    `toml:"id"`
	Point   []map[string]any          `toml:"point"`
	Targets map[string]map[string]any `toml:"targets"`
}

var pointFields = []string{"new_users", "revenue", "cpa", "ltv", "subscription_share"}

// LoadFile decodes and validates a TOML dataset file. Field problems are
// returned as *model.RecordError.
func LoadFile(path string) (*model.Dataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied dataset path
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return Decode(data)
}

// Decode parses dataset TOML held in memory.
func Decode(data []byte) (*model.Dataset, error) {
	var doc fileDoc
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing dataset: unknown keys %s", strings.Join(keys, ", "))
	}

	ds := &model.Dataset{Countries: make(map[model.CountryID]model.CountryData, len(doc.Country))}

	for i, c := range doc.Country {
		cd, err := decodeCountry(i, c)
		if err != nil {
			return nil, err
		}
		if _, dup := ds.Countries[cd.ID]; dup {
			return nil, recordErr("country", i, "id", "is duplicated")
		}
		ds.Countries[cd.ID] = cd
	}

	for i, raw := range doc.Campaign {
		c, err := decodeCampaign(raw)
		if err != nil {
			return nil, locate(err, "campaign", i)
		}
		ds.Campaigns = append(ds.Campaigns, c)
	}
	for i, raw := range doc.Budget {
		b, err := decodeBudget(raw)
		if err != nil {
			return nil, locate(err, "budget", i)
		}
		ds.Budget = append(ds.Budget, b)
	}
	for i, raw := range doc.Region {
		r, err := decodeRegion(raw)
		if err != nil {
			return nil, locate(err, "region", i)
		}
		ds.Regions = append(ds.Regions, r)
	}
	for i, raw := range doc.Channel {
		c, err := decodeChannel(raw)
		if err != nil {
			return nil, locate(err, "channel", i)
		}
		ds.Channels = append(ds.Channels, c)
	}
	if err := decodeProducts(&doc, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func decodeProducts(doc *fileDoc, ds *model.Dataset) error {
	last := make(map[string]time.Time)
	for i, raw := range doc.Conversion {
		c, err := decodeConversion(raw)
		if err != nil {
			return locate(err, "conversion", i)
		}
		if prev, ok := last[c.Line]; ok && !c.Period.After(prev) {
			return recordErr("conversion", i, "period", "is not after the line's previous sample")
		}
		last[c.Line] = c.Period
		ds.Conversions = append(ds.Conversions, c)
	}
	if doc.Cart != nil {
		cart, err := decodeCart(doc.Cart)
		if err != nil {
			return err
		}
		ds.Cart = cart
	}
	for i, raw := range doc.Product {
		p, err := decodeProduct(raw)
		if err != nil {
			return locate(err, "product", i)
		}
		ds.Products = append(ds.Products, p)
	}
	for i, raw := range doc.Category {
		c, err := decodeCategory(raw)
		if err != nil {
			return locate(err, "category", i)
		}
		ds.Categories = append(ds.Categories, c)
	}
	for i, raw := range doc.License {
		l, err := decodeLicense(raw)
		if err != nil {
			return locate(err, "license", i)
		}
		ds.Licenses = append(ds.Licenses, l)
	}
	for i, raw := range doc.Competitor {
		c, err := decodeCompetitor(raw)
		if err != nil {
			return locate(err, "competitor", i)
		}
		ds.Competitors = append(ds.Competitors, c)
	}
	for i, raw := range doc.Partner {
		p, err := decodePartner(raw)
		if err != nil {
			return locate(err, "partner", i)
		}
		ds.Partners = append(ds.Partners, p)
	}
	return nil
}

func decodeCountry(i int, c countryDoc) (model.CountryData, error) {
	id, err := model.ParseCountry(c.ID)
	if err != nil || id == model.CountryAll {
		return model.CountryData{}, recordErr("country", i, "id", "is not a known country")
	}
	source := "country." + string(id) + ".point"

	cd := model.CountryData{
		ID:         id,
		Historical: make([]model.TimeSeriesPoint, 0, len(c.Point)),
		Targets:    make(map[model.MetricKind]model.MetricTarget, len(c.Targets)),
		Journey:    Journey(id),
	}
	for j, raw := range c.Point {
		p, err := decodePoint(raw)
		if err != nil {
			return cd, locate(err, source, j)
		}
		if j > 0 && !p.Period.After(cd.Historical[j-1].Period) {
			return cd, recordErr(source, j, "period", "is not after the previous point")
		}
		cd.Historical = append(cd.Historical, p)
	}
	for key, raw := range c.Targets {
		m, err := model.ParseMetric(key)
		if err != nil {
			return cd, recordErr("country."+string(id)+".targets", -1, key, "is not a known metric")
		}
		rec, err := model.ParseRecord(raw, "target", "forecast")
		if err != nil {
			return cd, locate(err, "country."+string(id)+".targets."+key, -1)
		}
		cd.Targets[m] = model.MetricTarget{Target: rec["target"], Forecast: rec["forecast"]}
	}
	return cd, nil
}

func decodePoint(raw map[string]any) (model.TimeSeriesPoint, error) {
	period, err := dateField(raw, "period")
	if err != nil {
		return model.TimeSeriesPoint{}, err
	}
	rec, err := model.ParseRecord(raw, pointFields...)
	if err != nil {
		return model.TimeSeriesPoint{}, err
	}
	opt, err := optionalRecord(raw, "total_active_users", "subscribed_users")
	if err != nil {
		return model.TimeSeriesPoint{}, err
	}
	p := model.TimeSeriesPoint{
		Period:            period,
		Revenue:           rec["revenue"],
		CPA:               rec["cpa"],
		LTV:               rec["ltv"],
		SubscriptionShare: rec["subscription_share"],
	}
	if p.NewUsers, err = intField(rec, "new_users"); err != nil {
		return p, err
	}
	if p.TotalActiveUsers, err = intField(opt, "total_active_users"); err != nil {
		return p, err
	}
	if p.SubscribedUsers, err = intField(opt, "subscribed_users"); err != nil {
		return p, err
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func decodeCampaign(raw map[string]any) (model.Campaign, error) {
	var c model.Campaign
	var err error
	if c.ID, err = stringField(raw, "id"); err != nil {
		return c, err
	}
	if c.Name, err = stringField(raw, "name"); err != nil {
		return c, err
	}
	s, err := stringField(raw, "platform")
	if err != nil {
		return c, err
	}
	if c.Platform, err = model.ParsePlatform(s); err != nil || c.Platform == model.PlatformAll {
		return c, &model.RecordError{Index: -1, Field: "platform", Reason: "is not a known platform"}
	}
	if s, err = stringField(raw, "country"); err != nil {
		return c, err
	}
	if c.Country, err = model.ParseCountry(s); err != nil || c.Country == model.CountryAll {
		return c, &model.RecordError{Index: -1, Field: "country", Reason: "is not a known country"}
	}
	if s, err = stringField(raw, "status"); err != nil {
		return c, err
	}
	if c.Status, err = model.ParseStatus(s); err != nil || c.Status == model.StatusAll {
		return c, &model.RecordError{Index: -1, Field: "status", Reason: "is not a known status"}
	}
	if c.Start, err = dateField(raw, "start"); err != nil {
		return c, err
	}
	if c.End, err = dateField(raw, "end"); err != nil {
		return c, err
	}
	if c.End.Before(c.Start) {
		return c, &model.RecordError{Index: -1, Field: "end", Reason: "is before start"}
	}

	rec, err := model.ParseRecord(raw, "budget", "spent")
	if err != nil {
		return c, err
	}
	opt, err := optionalRecord(raw, "conversions", "cpa", "roas")
	if err != nil {
		return c, err
	}
	if err := nonNegative(rec, opt); err != nil {
		return c, err
	}
	if c.Conversions, err = intField(opt, "conversions"); err != nil {
		return c, err
	}
	c.Budget = rec["budget"]
	c.Spent = rec["spent"]
	c.CPA = opt["cpa"]
	c.ROAS = opt["roas"]
	return c, nil
}

func decodeBudget(raw map[string]any) (model.BudgetLine, error) {
	ch, err := stringField(raw, "channel")
	if err != nil {
		return model.BudgetLine{}, err
	}
	rec, err := model.ParseRecord(raw, "allocated", "spent")
	if err != nil {
		return model.BudgetLine{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.BudgetLine{}, err
	}
	return model.BudgetLine{Channel: ch, Allocated: rec["allocated"], Spent: rec["spent"]}, nil
}

func decodeRegion(raw map[string]any) (model.RegionStats, error) {
	s, err := stringField(raw, "country")
	if err != nil {
		return model.RegionStats{}, err
	}
	id, err := model.ParseCountry(s)
	if err != nil || id == model.CountryAll {
		return model.RegionStats{}, &model.RecordError{Index: -1, Field: "country", Reason: "is not a known country"}
	}
	rec, err := model.ParseRecord(raw, "users", "revenue")
	if err != nil {
		return model.RegionStats{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.RegionStats{}, err
	}
	// growth is a signed percentage.
	growth, err := model.ParseRecord(raw, "growth")
	if err != nil {
		return model.RegionStats{}, err
	}
	users, err := intField(rec, "users")
	if err != nil {
		return model.RegionStats{}, err
	}
	return model.RegionStats{
		Country: id,
		Users:   users,
		Revenue: rec["revenue"],
		Growth:  growth["growth"],
	}, nil
}

func decodeChannel(raw map[string]any) (model.ChannelStats, error) {
	name, err := stringField(raw, "name")
	if err != nil {
		return model.ChannelStats{}, err
	}
	rec, err := model.ParseRecord(raw, "users", "revenue", "conversion_rate", "cpa")
	if err != nil {
		return model.ChannelStats{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.ChannelStats{}, err
	}
	users, err := intField(rec, "users")
	if err != nil {
		return model.ChannelStats{}, err
	}
	return model.ChannelStats{
		Name:           name,
		Users:          users,
		Revenue:        rec["revenue"],
		ConversionRate: rec["conversion_rate"],
		CPA:            rec["cpa"],
	}, nil
}

func decodeConversion(raw map[string]any) (model.ConversionSample, error) {
	line, err := stringField(raw, "line")
	if err != nil {
		return model.ConversionSample{}, err
	}
	period, err := dateField(raw, "period")
	if err != nil {
		return model.ConversionSample{}, err
	}
	rec, err := model.ParseRecord(raw, "rate")
	if err != nil {
		return model.ConversionSample{}, err
	}
	if err := percentages(rec); err != nil {
		return model.ConversionSample{}, err
	}
	return model.ConversionSample{Line: line, Period: period, Rate: rec["rate"]}, nil
}

func decodeCart(c *cartDoc) (model.CartStats, error) {
	raw := make(map[string]any, 2)
	if c.AbandonmentRate != nil {
		raw["abandonment_rate"] = c.AbandonmentRate
	}
	if c.RecoveryRate != nil {
		raw["recovery_rate"] = c.RecoveryRate
	}
	rec, err := model.ParseRecord(raw, "abandonment_rate", "recovery_rate")
	if err != nil {
		return model.CartStats{}, locate(err, "cart", -1)
	}
	if err := percentages(rec); err != nil {
		return model.CartStats{}, locate(err, "cart", -1)
	}
	cart := model.CartStats{AbandonmentRate: rec["abandonment_rate"], RecoveryRate: rec["recovery_rate"]}
	for i, r := range c.Reason {
		reason, err := stringField(r, "reason")
		if err != nil {
			return cart, locate(err, "cart.reason", i)
		}
		share, err := model.ParseRecord(r, "share")
		if err != nil {
			return cart, locate(err, "cart.reason", i)
		}
		if err := percentages(share); err != nil {
			return cart, locate(err, "cart.reason", i)
		}
		cart.Reasons = append(cart.Reasons, model.AbandonReason{Reason: reason, Share: share["share"]})
	}
	return cart, nil
}

func decodeProduct(raw map[string]any) (model.ProductStats, error) {
	name, err := stringField(raw, "name")
	if err != nil {
		return model.ProductStats{}, err
	}
	rec, err := model.ParseRecord(raw, "conversion_rate", "aov", "sales_share")
	if err != nil {
		return model.ProductStats{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.ProductStats{}, err
	}
	return model.ProductStats{
		Name:           name,
		ConversionRate: rec["conversion_rate"],
		AOV:            rec["aov"],
		SalesShare:     rec["sales_share"],
	}, nil
}

func decodeCategory(raw map[string]any) (model.CategoryStats, error) {
	name, err := stringField(raw, "name")
	if err != nil {
		return model.CategoryStats{}, err
	}
	rec, err := model.ParseRecord(raw, "revenue", "market_share")
	if err != nil {
		return model.CategoryStats{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.CategoryStats{}, err
	}
	growth, err := model.ParseRecord(raw, "growth")
	if err != nil {
		return model.CategoryStats{}, err
	}
	return model.CategoryStats{
		Name:        name,
		Revenue:     rec["revenue"],
		Growth:      growth["growth"],
		MarketShare: rec["market_share"],
	}, nil
}

func decodeLicense(raw map[string]any) (model.LicenseStats, error) {
	tier, err := stringField(raw, "tier")
	if err != nil {
		return model.LicenseStats{}, err
	}
	rec, err := model.ParseRecord(raw, "renewal_rate", "days_to_renew", "share")
	if err != nil {
		return model.LicenseStats{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.LicenseStats{}, err
	}
	days, err := intField(rec, "days_to_renew")
	if err != nil {
		return model.LicenseStats{}, err
	}
	return model.LicenseStats{
		Tier:        tier,
		RenewalRate: rec["renewal_rate"],
		DaysToRenew: days,
		Share:       rec["share"],
	}, nil
}

func decodeCompetitor(raw map[string]any) (model.CompetitorStats, error) {
	name, err := stringField(raw, "name")
	if err != nil {
		return model.CompetitorStats{}, err
	}
	rec, err := model.ParseRecord(raw, "market_share", "price_index", "satisfaction")
	if err != nil {
		return model.CompetitorStats{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.CompetitorStats{}, err
	}
	return model.CompetitorStats{
		Name:         name,
		MarketShare:  rec["market_share"],
		PriceIndex:   rec["price_index"],
		Satisfaction: rec["satisfaction"],
	}, nil
}

func decodePartner(raw map[string]any) (model.PartnerStats, error) {
	name, err := stringField(raw, "name")
	if err != nil {
		return model.PartnerStats{}, err
	}
	rec, err := model.ParseRecord(raw, "revenue", "performance")
	if err != nil {
		return model.PartnerStats{}, err
	}
	if err := nonNegative(rec); err != nil {
		return model.PartnerStats{}, err
	}
	growth, err := model.ParseRecord(raw, "growth")
	if err != nil {
		return model.PartnerStats{}, err
	}
	return model.PartnerStats{
		Name:        name,
		Revenue:     rec["revenue"],
		Growth:      growth["growth"],
		Performance: rec["performance"],
	}, nil
}

var hundred = decimal.NewFromInt(100)

// percentages checks every field lies within [0,100].
func percentages(rec model.Record) error {
	if err := nonNegative(rec); err != nil {
		return err
	}
	for _, f := range rec.Fields() {
		if rec[f].GreaterThan(hundred) {
			return &model.RecordError{Index: -1, Field: f, Reason: "must be within [0,100]"}
		}
	}
	return nil
}

// optionalRecord parses only the fields present in raw; absent ones read as zero.
func optionalRecord(raw map[string]any, fields ...string) (model.Record, error) {
	present := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := raw[f]; ok {
			present = append(present, f)
		}
	}
	return model.ParseRecord(raw, present...)
}

func nonNegative(recs ...model.Record) error {
	for _, rec := range recs {
		for _, f := range rec.Fields() {
			if rec[f].IsNegative() {
				return &model.RecordError{Index: -1, Field: f, Reason: "is negative"}
			}
		}
	}
	return nil
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// intField reads a count field. Fractions and values outside int64 are
// rejected rather than truncated. An absent field reads as zero.
func intField(rec model.Record, field string) (int64, error) {
	d := rec[field]
	if !d.Equal(d.Truncate(0)) {
		return 0, &model.RecordError{Index: -1, Field: field, Reason: "is not a whole number"}
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return 0, &model.RecordError{Index: -1, Field: field, Reason: "is out of range"}
	}
	return d.IntPart(), nil
}

func stringField(raw map[string]any, field string) (string, error) {
	v, ok := raw[field]
	if !ok {
		return "", &model.RecordError{Index: -1, Field: field, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", &model.RecordError{Index: -1, Field: field, Reason: "is not a non-empty string"}
	}
	return s, nil
}

// dateField accepts a TOML date (local or offset) or a YYYY-MM-DD string and
// normalizes it to midnight UTC.
func dateField(raw map[string]any, field string) (time.Time, error) {
	v, ok := raw[field]
	if !ok {
		return time.Time{}, &model.RecordError{Index: -1, Field: field, Reason: "is missing"}
	}
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case string:
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(x))
		if err != nil {
			return time.Time{}, &model.RecordError{Index: -1, Field: field, Reason: "is not a date"}
		}
		t = parsed
	default:
		return time.Time{}, &model.RecordError{Index: -1, Field: field, Reason: "is not a date"}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func recordErr(source string, index int, field, reason string) error {
	return &model.RecordError{Source: source, Index: index, Field: field, Reason: reason}
}

// locate fills in the position of a *model.RecordError raised without one.
func locate(err error, source string, index int) error {
	if re, ok := err.(*model.RecordError); ok {
		re.Source = source
		re.Index = index
		return re
	}
	return err
}
