package model

// Dataset is the full set of dashboard data for one load.
type Dataset struct {
	Countries map[CountryID]CountryData
	Campaigns []Campaign
	Budget    []BudgetLine
	Regions   []RegionStats
	Channels  []ChannelStats

	Conversions []ConversionSample
	Cart        CartStats
	Products    []ProductStats
	Categories  []CategoryStats
	Licenses    []LicenseStats
	Competitors []CompetitorStats
	Partners    []PartnerStats
}

// CountryIDs returns the countries with KPI data in canonical display order.
func (d *Dataset) CountryIDs() []CountryID {
	ids := make([]CountryID, 0, len(d.Countries))
	for _, id := range CountryOrder {
		if _, ok := d.Countries[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Country looks up one market.
func (d *Dataset) Country(id CountryID) (CountryData, bool) {
	c, ok := d.Countries[id]
	return c, ok
}
