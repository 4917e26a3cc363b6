package blend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropsForBottle(t *testing.T) {
	tests := []struct {
		name         string
		percent      float64
		bottleSizeMl int
		want         int
	}{
		{"35 percent in 10ml", 35, 10, 70},
		{"50 percent in 10ml", 50, 10, 100},
		{"whole bottle", 100, 5, 100},
		{"rounds half up", 33.33, 10, 67},
		{"zero percent", 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropsForBottle(tt.percent, tt.bottleSizeMl))
		})
	}
}

func TestNormalizePercents(t *testing.T) {
	t.Run("rescales drifted sums to 100", func(t *testing.T) {
		ingredients := []RecipeIngredient{
			{Material: "oud", Percent: 60},
			{Material: "sandalwood", Percent: 30},
			{Material: "bergamot", Percent: 20},
		}

		NormalizePercents(ingredients)

		assert.InDelta(t, 100, PercentSum(ingredients), 1e-9)
		// ratios preserved
		assert.InDelta(t, ingredients[0].Percent, 2*ingredients[1].Percent, 1e-9)
	})

	t.Run("leaves sums within tolerance untouched", func(t *testing.T) {
		ingredients := []RecipeIngredient{
			{Material: "oud", Percent: 50.2},
			{Material: "amber", Percent: 49.9},
		}

		NormalizePercents(ingredients)

		assert.Equal(t, 50.2, ingredients[0].Percent)
		assert.Equal(t, 49.9, ingredients[1].Percent)
	})

	t.Run("skips zero sum", func(t *testing.T) {
		ingredients := []RecipeIngredient{{Material: "oud"}}
		NormalizePercents(ingredients)
		assert.Equal(t, float64(0), ingredients[0].Percent)
	})
}

func TestNoteSet(t *testing.T) {
	empty := NoteSet{}
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.All())

	notes := NoteSet{
		Top:   []string{"bergamot"},
		Heart: []string{"rose", "jasmine"},
		Base:  []string{"sandalwood"},
	}
	assert.False(t, notes.IsEmpty())
	assert.Equal(t, []string{"bergamot", "rose", "jasmine", "sandalwood"}, notes.All())
}

func TestIngredientListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"array", `["oud","sandalwood"]`, []string{"oud", "sandalwood"}},
		{"comma string", `"vanilla, tonka bean, cocoa"`, []string{"vanilla", "tonka bean", "cocoa"}},
		{"string with blanks", `"oud, , sandalwood,"`, []string{"oud", "sandalwood"}},
		{"array with whitespace", `[" oud ",""]`, []string{"oud"}},
		{"empty string", `""`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list IngredientList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &list))
			assert.Equal(t, tt.want, []string(list))
		})
	}

	t.Run("rejects non-string values", func(t *testing.T) {
		var list IngredientList
		assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &list))
	})
}

func TestIsValidStrength(t *testing.T) {
	assert.True(t, IsValidStrength("subtle"))
	assert.True(t, IsValidStrength("Moderate"))
	assert.True(t, IsValidStrength("STRONG"))
	assert.False(t, IsValidStrength("overwhelming"))
	assert.False(t, IsValidStrength(""))
}
