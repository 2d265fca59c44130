package usecase

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pitchlab/salescoach/domain"
)

// Built-in practice scenarios. IDs are stable; descriptions are enriched
// per session with dynamic company/product details.
var scenarioCatalog = []domain.Scenario{
	{
		ID:          "cold-call-prospecting",
		Name:        "Cold Call Prospecting",
		Description: "Reach a decision maker who has never heard of you and earn a follow-up meeting.",
		Persona:     "Time-Starved Executive",
		Difficulty:  "medium",
	},
	{
		ID:          "product-demo-presentation",
		Name:        "Product Demo Presentation",
		Description: "Walk a prospect through the product and tie features to their pain points.",
		Persona:     "Curious but Skeptical Client",
		Difficulty:  "easy",
	},
	{
		ID:          "price-negotiation",
		Name:        "Price Negotiation",
		Description: "Defend your pricing against a buyer pushing hard for discounts.",
		Persona:     "Price-Sensitive Buyer",
		Difficulty:  "hard",
	},
	{
		ID:          "objection-handling",
		Name:        "Objection Handling",
		Description: "Work through a stack of objections without losing the relationship.",
		Persona:     "Silent or Uninterested Customer",
		Difficulty:  "hard",
	},
	{
		ID:          "closing-techniques",
		Name:        "Closing Techniques",
		Description: "Move an interested but hesitant prospect to a signed commitment.",
		Persona:     "Curious but Skeptical Client",
		Difficulty:  "medium",
	},
	{
		ID:          "competitive-positioning",
		Name:        "Competitive Positioning",
		Description: "Differentiate your offer against a rival the customer already likes.",
		Persona:     "Competitive Buyer comparing you to rivals",
		Difficulty:  "medium",
	},
}

var (
	companyNames = []string{
		"TechCorp Solutions", "Global Dynamics", "InnovateTech", "Future Systems",
		"Digital Ventures", "Smart Solutions", "NextGen Technologies", "Elite Corp",
	}
	productNames = []string{
		"SalesPro Platform", "LeadGen Suite", "CRM Master", "Pipeline Pro",
		"Conversion Engine", "Revenue Optimizer",
	}
	industries = []string{
		"Technology", "Healthcare", "Finance", "Manufacturing", "Retail",
		"Education", "Real Estate", "Consulting",
	}
	budgets   = []string{"$10K - $25K", "$25K - $50K", "$50K - $100K", "$100K+", "TBD"}
	timelines = []string{"Immediate", "30 days", "60 days", "90 days", "Q1", "Q2"}
)

// Scenarios returns the scenario catalog.
func Scenarios() []domain.Scenario {
	out := make([]domain.Scenario, len(scenarioCatalog))
	copy(out, scenarioCatalog)
	return out
}

// FindScenario looks up a catalog scenario by ID.
func FindScenario(id string) (domain.Scenario, bool) {
	for _, s := range scenarioCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Scenario{}, false
}

// EnhanceScenario appends randomized business context so repeated runs of
// the same scenario don't feel identical. The rand source is injectable
// for tests.
func EnhanceScenario(s domain.Scenario, rng *rand.Rand) domain.Scenario {
	company := pick(rng, companyNames)
	product := pick(rng, productNames)
	industry := pick(rng, industries)
	budget := pick(rng, budgets)
	timeline := pick(rng, timelines)

	var extra string
	switch s.ID {
	case "cold-call-prospecting":
		extra = fmt.Sprintf("You're calling %s, a %s company with a %s budget.", company, industry, budget)
	case "product-demo-presentation":
		extra = fmt.Sprintf("Presenting %s to %s, who is struggling with long sales cycles.", product, company)
	case "price-negotiation":
		extra = fmt.Sprintf("Negotiating with %s, who has a %s budget and needs implementation within %s.", company, budget, timeline)
	case "objection-handling":
		extra = fmt.Sprintf("%s has raised concerns about price, timing, and their current solution.", company)
	case "closing-techniques":
		extra = fmt.Sprintf("%s is interested but hesitant. They have a %s budget and need to decide by %s.", company, budget, timeline)
	case "competitive-positioning":
		extra = fmt.Sprintf("%s is comparing %s with competitors. They're in the %s sector.", company, product, industry)
	default:
		extra = fmt.Sprintf("Working with %s in the %s sector.", company, industry)
	}

	s.Description = strings.TrimSpace(s.Description + " " + extra)
	return s
}

func pick(rng *rand.Rand, options []string) string {
	if rng == nil {
		return options[rand.Intn(len(options))]
	}
	return options[rng.Intn(len(options))]
}
