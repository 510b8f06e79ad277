package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Platform is the marketplace a campaign runs on.
type Platform string

// Platforms. PlatformAll is the zero value and matches every platform in filters.
const (
	PlatformAll       Platform = ""
	PlatformShopee    Platform = "shopee"
	PlatformLazada    Platform = "lazada"
	PlatformTokopedia Platform = "tokopedia"
)

// Platforms lists the concrete platforms in display order.
var Platforms = []Platform{PlatformShopee, PlatformLazada, PlatformTokopedia}

func (p Platform) String() string {
	switch p {
	case PlatformAll:
		return "All"
	case PlatformShopee:
		return "Shopee"
	case PlatformLazada:
		return "Lazada"
	case PlatformTokopedia:
		return "Tokopedia"
	}
	return string(p)
}

// ParsePlatform accepts a platform name case-insensitively; "all" and "" give PlatformAll.
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return PlatformAll, nil
	}
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return PlatformAll, fmt.Errorf("unknown platform %q", s)
}

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

// Statuses. StatusAll is the zero value and matches every status in filters.
const (
	StatusAll       CampaignStatus = ""
	StatusActive    CampaignStatus = "active"
	StatusScheduled CampaignStatus = "scheduled"
	StatusCompleted CampaignStatus = "completed"
	StatusPaused    CampaignStatus = "paused"
)

// Statuses lists the concrete statuses in display order.
var Statuses = []CampaignStatus{StatusActive, StatusScheduled, StatusCompleted, StatusPaused}

func (s CampaignStatus) String() string {
	if s == StatusAll {
		return "All"
	}
	return string(s)
}

// ParseStatus accepts a status name case-insensitively; "all" and "" give StatusAll.
func ParseStatus(s string) (CampaignStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return StatusAll, nil
	}
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return StatusAll, fmt.Errorf("unknown campaign status %q", s)
}

// Campaign is one paid marketplace campaign.
type Campaign struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Platform    Platform        `json:"platform"`
	Country     CountryID       `json:"country"`
	Status      CampaignStatus  `json:"status"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Conversions int64           `json:"conversions"`
	CPA         decimal.Decimal `json:"cpa"`
	ROAS        decimal.Decimal `json:"roas"`
}

// Record exposes the summable fields.
func (c Campaign) Record() Record {
	return Record{
		"budget":      c.Budget,
		"spent":       c.Spent,
		"conversions": decimal.NewFromInt(c.Conversions),
	}
}
