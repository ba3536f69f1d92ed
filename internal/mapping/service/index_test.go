package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyword-mapping-service/internal/mapping/model"
)

func TestExtract_SubstringMatching(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("cat", nil)

	// substring by default: "cat" matches inside "category"
	assert.Equal(t, []string{"cat"}, ix.Extract("category"))
	assert.Equal(t, []string{"cat"}, ix.Extract("the cat sat"))
	assert.Empty(t, ix.Extract("dog"))
}

func TestExtract_NoFalsePositivesOrNegatives(t *testing.T) {
	ix := NewIndex(model.Options{})
	keywords := []string{"milk", "bread", "ilk", "read", "milky way", "a"}
	for _, kw := range keywords {
		ix.Add(kw, nil)
	}

	text := "I bought milk and bread"
	got := ix.Extract(text)

	// exactly the registered keywords that are literal substrings
	assert.ElementsMatch(t, []string{"milk", "bread", "ilk", "read", "a"}, got)
}

func TestExtract_FirstOccurrenceOrder(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("bread", nil)
	ix.Add("milk", nil)
	ix.Add("butter", nil)

	got := ix.Extract("butter then milk then bread")
	assert.Equal(t, []string{"butter", "milk", "bread"}, got)

	// ties at the same offset resolve shorter-first
	ix2 := NewIndex(model.Options{})
	ix2.Add("category", nil)
	ix2.Add("cat", nil)
	assert.Equal(t, []string{"cat", "category"}, ix2.Extract("category"))
}

func TestExtract_Deterministic(t *testing.T) {
	ix := NewIndex(model.Options{})
	for _, kw := range []string{"alpha", "beta", "gamma", "al", "ma"} {
		ix.Add(kw, nil)
	}
	text := "gamma beta alpha"
	first := ix.Extract(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ix.Extract(text))
	}
}

func TestExtract_CaseSensitiveByDefault(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("Milk", nil)

	assert.Empty(t, ix.Extract("i bought milk"))
	assert.Equal(t, []string{"Milk"}, ix.Extract("i bought Milk"))
}

func TestExtract_CaseInsensitiveOption(t *testing.T) {
	ix := NewIndex(model.Options{CaseInsensitive: true})
	ix.Add("Milk", nil)

	assert.Equal(t, []string{"Milk"}, ix.Extract("i bought MILK"))
	assert.Equal(t, []string{"Milk"}, ix.Extract("i bought milk"))
}

func TestExtract_WordBoundaryOption(t *testing.T) {
	ix := NewIndex(model.Options{WordBoundary: true})
	ix.Add("cat", nil)

	assert.Empty(t, ix.Extract("category"))
	assert.Empty(t, ix.Extract("bobcat_trap"))
	assert.Equal(t, []string{"cat"}, ix.Extract("a cat, obviously"))
	assert.Equal(t, []string{"cat"}, ix.Extract("cat"))
}

func TestAdd_OverwriteLastWins(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("milk", []string{"Dairy"})
	ix.Add("milk", []string{"Beverages", "Breakfast"})

	require.Equal(t, 1, ix.Len())
	assert.Equal(t, "Beverages, Breakfast", ix.Products("milk"))
}

func TestAdd_SkipsEmptyKeyword(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("", []string{"X"})
	ix.Add("   ", []string{"X"})
	ix.Add("real", nil)

	assert.Equal(t, 1, ix.Len())
}

func TestProducts_DashForEmptyOrUnknown(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("cat", nil)
	ix.Add("milk", []string{"Dairy"})

	assert.Equal(t, "-", ix.Products("cat"))
	assert.Equal(t, "-", ix.Products("never registered"))
	assert.Equal(t, "Dairy", ix.Products("milk"))
}

func TestExtract_KeywordsWithSpacesAndPunctuation(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("milky way", nil)
	ix.Add("2%", nil)

	got := ix.Extract("a milky way bar and 2% milk")
	assert.Equal(t, []string{"milky way", "2%"}, got)
}

func TestExtract_UnicodeText(t *testing.T) {
	ix := NewIndex(model.Options{})
	ix.Add("молоко", nil)
	ix.Add("хлеб", nil)

	got := ix.Extract("купил молоко и хлеб")
	assert.Equal(t, []string{"молоко", "хлеб"}, got)
}

func TestExtract_EmptyIndexOrText(t *testing.T) {
	ix := NewIndex(model.Options{})
	assert.Empty(t, ix.Extract("anything"))

	ix.Add("kw", nil)
	assert.Empty(t, ix.Extract(""))
}
