package pipeline

import (
	"testing"

	"github.com/theirongolddev/adpulse/internal/dataset"
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/stretchr/testify/assert"
)

func campaignIDs(cs []model.Campaign) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func TestFilterCampaigns(t *testing.T) {
	all := dataset.Campaigns()

	tests := []struct {
		name   string
		filter CampaignFilter
		want   []string
	}{
		{"zero filter keeps all", CampaignFilter{}, []string{"ID-001", "ID-002", "ID-003", "TH-001", "TH-002", "MY-001", "MY-002"}},
		{"platform", CampaignFilter{Platform: model.PlatformShopee}, []string{"ID-002", "TH-001", "MY-001"}},
		{"country and status", CampaignFilter{Country: model.Indonesia, Status: model.StatusActive}, []string{"ID-001", "ID-002"}},
		{"platform and status", CampaignFilter{Platform: model.PlatformLazada, Status: model.StatusScheduled}, []string{"ID-003", "TH-002"}},
		{"no match", CampaignFilter{Status: model.StatusPaused}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCampaigns(all, tt.filter)
			assert.Equal(t, tt.want, campaignIDs(got))
		})
	}
	assert.Len(t, all, 7, "input must not shrink")
}

func TestCampaignTotals(t *testing.T) {
	s := CampaignTotals(dataset.Campaigns())
	assert.Equal(t, 7, s.Count)
	assert.True(t, s.Budget.Equal(dec("1020000")))
	assert.True(t, s.Spent.Equal(dec("423000")))
	assert.Equal(t, int64(20900), s.Conversions)
	assert.True(t, s.SpentPct.Equal(dec("41")))
	assert.True(t, s.CPA.Equal(dec("20.24")), "cpa %s", s.CPA)

	empty := CampaignTotals(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.SpentPct.IsZero())
	assert.True(t, empty.CPA.IsZero())
}

func TestBudgetTotals(t *testing.T) {
	s := BudgetTotals(dataset.Budget())
	assert.True(t, s.Allocated.Equal(dec("850000")))
	assert.True(t, s.Spent.Equal(dec("665000")))
	assert.True(t, s.Remaining.Equal(dec("185000")))
	assert.True(t, s.SpentPct.Equal(dec("78")))
}

func TestRegionAndChannelTotals(t *testing.T) {
	r := RegionTotals(dataset.Regions())
	assert.Equal(t, int64(108000), r.Users)
	assert.True(t, r.Revenue.Equal(dec("1950000")))

	c := ChannelTotals(dataset.Channels())
	assert.Equal(t, int64(43000), c.Users)
	assert.True(t, c.Revenue.Equal(dec("800000")))

	share := UserShare(dataset.Channels())
	assert.True(t, share["Paid Search"].Equal(dec("35")))
	assert.True(t, share["Affiliate"].Equal(dec("7")))
}

func TestCampaignsByBudget(t *testing.T) {
	all := dataset.Campaigns()
	got := CampaignsByBudget(all)
	assert.Equal(t, "ID-002", got[0].ID)
	assert.Equal(t, "MY-001", got[len(got)-1].ID)
	assert.Equal(t, "ID-001", all[0].ID)
}
