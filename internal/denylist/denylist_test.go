package denylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesEmbeddedData(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, tables.MegaRetailerBrands)
	assert.NotEmpty(t, tables.MegaRetailerDomains)
	assert.NotEmpty(t, tables.IrrelevantSearchDomains)
	assert.NotEmpty(t, tables.IrrelevantPlaceTypes)
	assert.NotEmpty(t, tables.RelevanceTable)
	require.Len(t, tables.CategoryExclusions, 2)
}

func TestIsMegaRetailerName(t *testing.T) {
	tables := MustLoad()

	assert.True(t, tables.IsMegaRetailerName("Walmart Supercenter"))
	assert.True(t, tables.IsMegaRetailerName("TARGET"))
	assert.False(t, tables.IsMegaRetailerName("Green Valley Outfitters"))
}

func TestIsMegaRetailerDomain(t *testing.T) {
	tables := MustLoad()

	assert.True(t, tables.IsMegaRetailerDomain("amazon.com"))
	assert.True(t, tables.IsMegaRetailerDomain("www.amazon.com"))
	assert.True(t, tables.IsMegaRetailerDomain("smile.amazon.com"))
	assert.False(t, tables.IsMegaRetailerDomain("amazonbasin.org"))
}

func TestIsIrrelevantDomain(t *testing.T) {
	tables := MustLoad()

	assert.True(t, tables.IsIrrelevantDomain("pinterest.com"))
	assert.True(t, tables.IsIrrelevantDomain("en.wikipedia.org"))
	assert.False(t, tables.IsIrrelevantDomain("hydroflaskalternatives.com"))
}

func TestIsIrrelevantPlaceType(t *testing.T) {
	tables := MustLoad()

	assert.True(t, tables.IsIrrelevantPlaceType([]string{"store", "gas_station"}))
	assert.False(t, tables.IsIrrelevantPlaceType([]string{"store", "sporting_goods_store"}))
	assert.False(t, tables.IsIrrelevantPlaceType(nil))
}

func TestExclusionsFor_LuggageAndDrinkware(t *testing.T) {
	tables := MustLoad()

	luggage := tables.ExclusionsFor("Carry-On Luggage")
	require.Len(t, luggage, 1)
	assert.Contains(t, luggage[0].ExcludedTypes, "furniture_store")

	bottles := tables.ExclusionsFor("Reusable Water Bottles")
	require.Len(t, bottles, 1)
	assert.Contains(t, bottles[0].ExcludedTypes, "plumber")

	assert.Empty(t, tables.ExclusionsFor("Desk Lamps"))
}
