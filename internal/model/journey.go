package model

// JourneyMetric is a display-only stage indicator such as "Conversion Rate 3.2%".
type JourneyMetric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Trend Trend  `json:"trend"`
}

// JourneyStage is one step of the customer funnel in a market.
type JourneyStage struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Touchpoints   []string        `json:"touchpoints"`
	PainPoints    []string        `json:"pain_points"`
	Opportunities []string        `json:"opportunities"`
	Metrics       []JourneyMetric `json:"metrics"`
}
