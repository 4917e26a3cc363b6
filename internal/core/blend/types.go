package blend

import (
	"encoding/json"
	"math"
	"strings"
)

// DropsPerMl is the conversion constant for essential oils (1 ml ~ 20 drops).
const DropsPerMl = 20

// PercentTolerance is how far a recipe's percent sum may drift from 100
// before it is renormalized.
const PercentTolerance = 0.5

// Bottle size bounds in milliliters.
const (
	MinBottleSizeMl = 5
	MaxBottleSizeMl = 100
)

// Strength levels accepted from users.
const (
	StrengthSubtle   = "subtle"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

// IsValidStrength reports whether s is an accepted strength level.
func IsValidStrength(s string) bool {
	switch strings.ToLower(s) {
	case StrengthSubtle, StrengthModerate, StrengthStrong:
		return true
	}
	return false
}

// PreferenceInput is the user-supplied request to the pipeline. Immutable for
// the duration of a request.
type PreferenceInput struct {
	Style           string
	Strength        string
	BottleSizeMl    int
	VibeWords       []string
	UserIngredients []string
}

// BriefConstraints are the named formulation constraints the planner emits.
type BriefConstraints struct {
	PreferUserIngredients bool `json:"prefer_user_ingredients"`
	AvoidOverlySweet      bool `json:"avoid_overly_sweet"`
	FocusOnNatural        bool `json:"focus_on_natural"`
}

// ScentBrief is the structured intermediate between the two pipeline stages.
// It is never persisted.
type ScentBrief struct {
	TargetProfile           string           `json:"target_profile"`
	BottleSizeMl            int              `json:"bottle_size_ml"`
	Intensity               string           `json:"intensity"`
	NoteFamilies            []string         `json:"note_families"`
	RecipesToGenerate       int              `json:"recipes_to_generate"`
	MaxIngredientsPerRecipe int              `json:"max_ingredients_per_recipe"`
	Constraints             BriefConstraints `json:"constraints"`
}

// NoteSet is the top/heart/base note pyramid of a recipe.
type NoteSet struct {
	Top   []string `json:"top"`
	Heart []string `json:"heart"`
	Base  []string `json:"base"`
}

// All returns every note in pyramid order.
func (n NoteSet) All() []string {
	all := make([]string, 0, len(n.Top)+len(n.Heart)+len(n.Base))
	all = append(all, n.Top...)
	all = append(all, n.Heart...)
	all = append(all, n.Base...)
	return all
}

// IsEmpty reports whether the pyramid has no notes at all.
func (n NoteSet) IsEmpty() bool {
	return len(n.Top) == 0 && len(n.Heart) == 0 && len(n.Base) == 0
}

// RecipeIngredient is a single aromatic material in a recipe.
type RecipeIngredient struct {
	Material       string  `json:"material"`
	Role           string  `json:"role"`
	Percent        float64 `json:"percent"`
	DropsForBottle int     `json:"drops_for_bottle"`
}

// Carrier is the diluent recommendation; its percent is not part of the
// aromatic 100%.
type Carrier struct {
	Material string  `json:"material"`
	Percent  float64 `json:"percent"`
}

// Recipe is one complete perfume oil formula.
type Recipe struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Notes        NoteSet            `json:"notes"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Carrier      *Carrier           `json:"carrier,omitempty"`
	Instructions []string           `json:"instructions"`
	SafetyNote   string             `json:"safety_note"`
}

// DropsForBottle converts an aromatic percentage into drop units for a bottle.
func DropsForBottle(percent float64, bottleSizeMl int) int {
	return int(math.Round(percent / 100 * float64(bottleSizeMl) * DropsPerMl))
}

// PercentSum adds up the aromatic percentages of a recipe.
func PercentSum(ingredients []RecipeIngredient) float64 {
	var sum float64
	for _, ing := range ingredients {
		sum += ing.Percent
	}
	return sum
}

// NormalizePercents rescales ingredient percents so they sum to 100. Sums
// already within PercentTolerance of 100 are left untouched, as is a zero sum
// (nothing meaningful to scale).
func NormalizePercents(ingredients []RecipeIngredient) {
	sum := PercentSum(ingredients)
	if sum == 0 || math.Abs(sum-100) <= PercentTolerance {
		return
	}
	for i := range ingredients {
		ingredients[i].Percent = ingredients[i].Percent / sum * 100
	}
}

// IngredientList accepts either a JSON array of strings or a single
// comma-separated string, normalizing to a cleaned slice.
type IngredientList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	var asSlice []string
	if err := json.Unmarshal(data, &asSlice); err == nil {
		*l = cleanIngredients(asSlice)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*l = cleanIngredients(strings.Split(asString, ","))
	return nil
}

func cleanIngredients(raw []string) []string {
	cleaned := make([]string, 0, len(raw))
	for _, item := range raw {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
