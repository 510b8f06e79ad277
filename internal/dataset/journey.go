package dataset

import "github.com/theirongolddev/adpulse/internal/model"

// StageNames is the fixed funnel order shared by every market.
var StageNames = []string{"Discovery", "Evaluation", "Purchase", "Activation", "Retention"}

var stageDescriptions = map[string]string{
	"Discovery":  "Initial product discovery through digital channels",
	"Evaluation": "Product research and comparison phase",
	"Purchase":   "Conversion and checkout process",
	"Activation": "Initial product setup and usage",
	"Retention":  "Long-term engagement and renewal",
}

func up(name, value string) model.JourneyMetric {
	return model.JourneyMetric{Name: name, Value: value, Trend: model.TrendUp}
}

func down(name, value string) model.JourneyMetric {
	return model.JourneyMetric{Name: name, Value: value, Trend: model.TrendDown}
}

func flat(name, value string) model.JourneyMetric {
	return model.JourneyMetric{Name: name, Value: value, Trend: model.TrendStable}
}

func stage(name string, touch, pain, opp []string, metrics ...model.JourneyMetric) model.JourneyStage {
	return model.JourneyStage{
		Name:          name,
		Description:   stageDescriptions[name],
		Touchpoints:   touch,
		PainPoints:    pain,
		Opportunities: opp,
		Metrics:       metrics,
	}
}

type list = []string

// Journey returns the funnel stages for a market, or nil when none are recorded.
func Journey(id model.CountryID) []model.JourneyStage {
	switch id {
	case model.Indonesia:
		return []model.JourneyStage{
			stage("Discovery",
				list{"Tokopedia Featured Products", "Shopee Search Ads", "Instagram Shopping", "Google Shopping", "TikTok Shop"},
				list{"High competition in marketplaces", "Price comparison challenges", "Limited product education"},
				list{"Marketplace optimization", "Platform-specific content", "Influencer partnerships"},
				up("Click-through Rate", "2.8%"), up("Brand Search Volume", "+45%"), flat("Ad Impression Share", "35%")),
			stage("Evaluation",
				list{"Product Detail Pages", "Customer Reviews", "Tech Review Videos", "Comparison Tools", "Live Chat Support"},
				list{"Complex feature comparison", "Trust in online reviews", "Technical language barriers"},
				list{"Visual feature comparisons", "Verified review program", "Localized product guides"},
				up("Page Time", "4:30"), up("Review Rating", "4.5"), up("Compare Rate", "25%")),
			stage("Purchase",
				list{"Marketplace Checkout", "Direct Website", "Mobile App Purchase", "Payment Gateway", "Order Confirmation"},
				list{"Payment method preferences", "Cart abandonment", "Discount expectations"},
				list{"Local payment integration", "Cart recovery automation", "Dynamic pricing strategy"},
				up("Conversion Rate", "3.2%"), down("Cart Abandonment", "65%"), up("Average Order Value", "$45")),
			stage("Activation",
				list{"Welcome Email", "Setup Guide", "Product Dashboard", "Support Chat", "Tutorial Videos"},
				list{"Installation complexity", "Feature discovery", "Language preferences"},
				list{"Guided setup process", "Interactive tutorials", "Multilingual support"},
				up("Activation Rate", "85%"), down("Support Tickets", "-20%"), up("Feature Usage", "60%")),
			stage("Retention",
				list{"Product Updates", "Security Reports", "Renewal Notifications", "Loyalty Program", "Upgrade Offers"},
				list{"Renewal friction", "Value demonstration", "Competition offers"},
				list{"Auto-renewal options", "Performance insights", "Loyalty rewards"},
				up("Retention Rate", "75%"), up("Renewal Rate", "68%"), up("NPS Score", "45")),
		}
	case model.Thailand:
		return []model.JourneyStage{
			stage("Discovery",
				list{"Lazada", "Shopee", "Line Shopping", "Facebook Marketplace"},
				list{"Platform fragmentation", "Price sensitivity", "Brand awareness"},
				list{"Line integration", "Social commerce", "Influencer marketing"},
				up("Click-through Rate", "2.5%"), up("Brand Search Volume", "+35%"), flat("Ad Impression Share", "30%")),
			stage("Evaluation",
				list{"Product Reviews", "Tech Forums", "Line Groups", "Comparison Sites"},
				list{"Language barriers", "Technical understanding", "Trust issues"},
				list{"Thai language content", "Expert reviews", "Community building"},
				up("Page Time", "3:45"), up("Review Rating", "4.3"), up("Compare Rate", "22%")),
			stage("Purchase",
				list{"Mobile Checkout", "PromptPay", "TrueMoney Wallet"},
				list{"Payment preferences", "Mobile optimization", "Cart abandonment"},
				list{"Local payment methods", "Mobile-first design", "Flash deals"},
				up("Conversion Rate", "2.8%"), down("Cart Abandonment", "70%"), up("Average Order Value", "$40")),
			stage("Activation",
				list{"Thai Setup Guide", "Line Support", "Video Tutorials"},
				list{"Technical support", "Language preferences", "Setup complexity"},
				list{"Thai language support", "Line integration", "Video guides"},
				up("Activation Rate", "80%"), down("Support Tickets", "-15%"), up("Feature Usage", "55%")),
			stage("Retention",
				list{"Line Notifications", "Email Updates", "Loyalty Program"},
				list{"Renewal reminders", "Competitive offers", "Value perception"},
				list{"Line loyalty program", "Thai promotions", "Local partnerships"},
				up("Retention Rate", "70%"), up("Renewal Rate", "65%"), up("NPS Score", "40")),
		}
	case model.Malaysia:
		return []model.JourneyStage{
			stage("Discovery",
				list{"Shopee MY", "Lazada MY", "Facebook Ads", "Google Shopping"},
				list{"Market competition", "Price sensitivity", "Product awareness"},
				list{"Marketplace optimization", "Social media ads", "Local partnerships"},
				up("Click-through Rate", "2.6%"), up("Brand Search Volume", "+40%"), flat("Ad Impression Share", "32%")),
			stage("Evaluation",
				list{"Product Reviews", "Tech Blogs", "Comparison Sites"},
				list{"Feature comparison", "Review credibility", "Technical details"},
				list{"Multilingual content", "Expert reviews", "Comparison tools"},
				up("Page Time", "4:00"), up("Review Rating", "4.4"), up("Compare Rate", "24%")),
			stage("Purchase",
				list{"Online Banking", "E-wallets", "Credit Cards"},
				list{"Payment options", "Cart abandonment", "Price competition"},
				list{"Local payment integration", "Cart recovery", "Bundle offers"},
				up("Conversion Rate", "3.0%"), down("Cart Abandonment", "68%"), up("Average Order Value", "$42")),
			stage("Activation",
				list{"Setup Guide", "WhatsApp Support", "Email Support"},
				list{"Installation support", "Language options", "Technical issues"},
				list{"Multilingual support", "WhatsApp integration", "Video tutorials"},
				up("Activation Rate", "82%"), down("Support Tickets", "-18%"), up("Feature Usage", "58%")),
			stage("Retention",
				list{"Email Updates", "WhatsApp Notifications", "Loyalty Program"},
				list{"Renewal process", "Competition", "Value demonstration"},
				list{"Auto-renewal", "Loyalty rewards", "Performance reports"},
				up("Retention Rate", "72%"), up("Renewal Rate", "67%"), up("NPS Score", "42")),
		}
	}
	return nil
}
