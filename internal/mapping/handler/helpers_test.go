package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyword-mapping-service/internal/fileio"
	"keyword-mapping-service/internal/mapping/model"
)

func TestConcatColumns(t *testing.T) {
	row := map[string]string{"a": "red", "b": "", "c": "apple", "d": "  "}

	assert.Equal(t, "red apple", concatColumns(row, []string{"a", "b", "c", "d"}))
	assert.Equal(t, "apple red", concatColumns(row, []string{"c", "a"}))
	assert.Equal(t, "-", concatColumns(row, []string{"b", "d"}))
	assert.Equal(t, "-", concatColumns(row, []string{"missing"}))
}

func TestConcatColumns_CleansSpecialSpaces(t *testing.T) {
	row := map[string]string{"a": "red wine", "b": "dry   style"}
	assert.Equal(t, "red wine dry style", concatColumns(row, []string{"a", "b"}))
}

func TestResolveColumns(t *testing.T) {
	headers := []string{"Product Name", "SKU", "Long Description"}

	got, err := resolveColumns(headers, []string{"SKU", "Product Name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Product Name"}, got)

	// normalized lookup: case and punctuation do not matter
	got, err = resolveColumns(headers, []string{"product name", "long_description"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Product Name", "Long Description"}, got)

	_, err = resolveColumns(headers, []string{"Price"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Price"`)
}

func TestBuildIndexFromManual(t *testing.T) {
	ix := buildIndexFromManual("a, b, b, c, ,  ", model.Options{})

	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, []string{"a", "b", "c"}, ix.Extract("a b c"))
	assert.Equal(t, "-", ix.Products("a"))
}

func TestBuildIndexFromTable(t *testing.T) {
	tbl := &fileio.Table{
		Headers: []string{"kw", "kw2", "prod"},
		Rows: []map[string]string{
			{"kw": "milk", "kw2": "cream", "prod": "Dairy"},
			{"kw": "bread", "kw2": "", "prod": "Bakery"},
			{"kw": "milk", "kw2": "", "prod": "Beverages"}, // overwrites milk
			{"kw": "plain", "kw2": "", "prod": ""},
		},
	}

	ix := buildIndexFromTable(tbl, []string{"kw", "kw2"}, []string{"prod"}, model.Options{})

	assert.Equal(t, 4, ix.Len())
	assert.Equal(t, "Beverages", ix.Products("milk"))
	assert.Equal(t, "Dairy", ix.Products("cream"))
	assert.Equal(t, "Bakery", ix.Products("bread"))
	assert.Equal(t, "-", ix.Products("plain"))
}

func TestNormHeaderKey(t *testing.T) {
	assert.Equal(t, "product name", normHeaderKey("  Product Name "))
	assert.Equal(t, "long description", normHeaderKey("Long_Description"))
	assert.Equal(t, "", normHeaderKey("---"))
}

func TestFormHelpers(t *testing.T) {
	assert.Equal(t, 3, atoi("3", 1))
	assert.Equal(t, 1, atoi("", 1))
	assert.Equal(t, 1, atoi("oops", 1))

	assert.True(t, toBool("on", false))
	assert.True(t, toBool("TRUE", false))
	assert.False(t, toBool("0", true))
	assert.True(t, toBool("", true))

	assert.Equal(t, []string{"a", "b"}, splitSelection(" a , b ,"))
	assert.Nil(t, splitSelection("  "))
}
