package usecase

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_CatalogIsComplete(t *testing.T) {
	scenarios := Scenarios()

	require.NotEmpty(t, scenarios)
	seen := map[string]bool{}
	for _, s := range scenarios {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Description)
		assert.NotEmpty(t, s.Persona)
		assert.NotEmpty(t, s.Difficulty)
		assert.False(t, seen[s.ID], "duplicate scenario id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestFindScenario(t *testing.T) {
	s, ok := FindScenario("price-negotiation")
	require.True(t, ok)
	assert.Equal(t, "Price Negotiation", s.Name)

	_, ok = FindScenario("does-not-exist")
	assert.False(t, ok)
}

func TestEnhanceScenario_AppendsContext(t *testing.T) {
	base, ok := FindScenario("cold-call-prospecting")
	require.True(t, ok)

	rng := rand.New(rand.NewSource(42))
	enhanced := EnhanceScenario(base, rng)

	assert.Contains(t, enhanced.Description, base.Description)
	assert.Greater(t, len(enhanced.Description), len(base.Description))
	assert.Contains(t, enhanced.Description, "You're calling")
}

func TestEnhanceScenario_DeterministicWithSeededSource(t *testing.T) {
	base, ok := FindScenario("closing-techniques")
	require.True(t, ok)

	first := EnhanceScenario(base, rand.New(rand.NewSource(7)))
	second := EnhanceScenario(base, rand.New(rand.NewSource(7)))

	assert.Equal(t, first.Description, second.Description)
}

func TestEnhanceScenario_DoesNotMutateCatalog(t *testing.T) {
	before, _ := FindScenario("objection-handling")
	EnhanceScenario(before, rand.New(rand.NewSource(1)))
	after, _ := FindScenario("objection-handling")

	assert.Equal(t, before.Description, after.Description)
}
