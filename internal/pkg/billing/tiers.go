package billing

import (
	"strings"

	"github.com/linguabot/linguabot/app/models"
)

// Tier is one subscription level. The catalog is static configuration;
// nothing mutates it at runtime.
type Tier struct {
	ID              string
	Name            string
	CreditsPerMonth int64
	PriceUSD        float64
	Features        []string
}

var tiers = []Tier{
	{
		ID:              models.TierFree,
		Name:            "Free",
		CreditsPerMonth: 1000,
		PriceUSD:        0,
		Features: []string{
			"1000 translation credits/month",
			"Basic translation quality",
			"10 languages",
		},
	},
	{
		ID:              models.TierPro,
		Name:            "Pro",
		CreditsPerMonth: 10000,
		PriceUSD:        9.99,
		Features: []string{
			"10,000 translation credits/month",
			"Premium translation quality",
			"All 100+ languages",
			"Priority support",
			"No ads",
		},
	},
	{
		ID:              models.TierEnterprise,
		Name:            "Enterprise",
		CreditsPerMonth: 100000,
		PriceUSD:        99,
		Features: []string{
			"100,000 translation credits/month",
			"Best-in-class translation quality",
			"All 100+ languages",
			"Dedicated support",
			"API access",
			"Custom branding",
		},
	},
}

// Tiers returns the full catalog in display order.
func Tiers() []Tier {
	return tiers
}

// TierByID looks a tier up by its identifier.
func TierByID(id string) (Tier, bool) {
	id = normalizeTier(id)
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

func normalizeTier(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case models.TierPro:
		return models.TierPro
	case models.TierEnterprise:
		return models.TierEnterprise
	default:
		return models.TierFree
	}
}

func tierRank(tier string) int {
	switch normalizeTier(tier) {
	case models.TierEnterprise:
		return 2
	case models.TierPro:
		return 1
	default:
		return 0
	}
}
