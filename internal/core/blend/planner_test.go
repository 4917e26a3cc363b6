package blend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"perfume-pal/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator replays canned responses and records the prompts it saw.
type fakeGenerator struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeGenerator) ProcessRequest(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

var testInput = PreferenceInput{
	Style:           "dark oud",
	Strength:        "moderate",
	BottleSizeMl:    10,
	VibeWords:       []string{"smoky", "warm"},
	UserIngredients: []string{"oud", "sandalwood"},
}

const validBriefJSON = `{
	"target_profile": "A smoky, resinous oud fragrance with warm depth",
	"bottle_size_ml": 10,
	"intensity": "moderate",
	"note_families": ["oud", "amber", "woods"],
	"recipes_to_generate": 2,
	"max_ingredients_per_recipe": 6,
	"constraints": {
		"prefer_user_ingredients": true,
		"avoid_overly_sweet": true,
		"focus_on_natural": true
	}
}`

func TestCreateBrief(t *testing.T) {
	gen := &fakeGenerator{responses: []string{validBriefJSON}}
	planner := NewPlannerService(gen, 1024)

	brief, err := planner.CreateBrief(context.Background(), testInput)
	require.NoError(t, err)

	assert.Equal(t, "A smoky, resinous oud fragrance with warm depth", brief.TargetProfile)
	assert.Equal(t, 10, brief.BottleSizeMl)
	assert.Equal(t, []string{"oud", "amber", "woods"}, brief.NoteFamilies)
	assert.Equal(t, 2, brief.RecipesToGenerate)
	assert.True(t, brief.Constraints.PreferUserIngredients)

	// the prompt embeds every preference field
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "dark oud")
	assert.Contains(t, gen.prompts[0], "10 ml")
	assert.Contains(t, gen.prompts[0], "smoky, warm")
	assert.Contains(t, gen.prompts[0], "oud, sandalwood")
}

func TestCreateBriefStripsMarkdownFences(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"```json\n" + validBriefJSON + "\n```"}}
	planner := NewPlannerService(gen, 1024)

	brief, err := planner.CreateBrief(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, "moderate", brief.Intensity)
}

func TestCreateBriefClampsRecipeCount(t *testing.T) {
	tests := []struct {
		name      string
		count     string
		wantCount int
	}{
		{"over the cap", `"recipes_to_generate": 9`, 3},
		{"zero defaults", `"recipes_to_generate": 0`, 2},
		{"negative defaults", `"recipes_to_generate": -4`, 2},
		{"in range", `"recipes_to_generate": 3`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := `{"target_profile": "x", "note_families": ["oud"], ` + tt.count + `}`
			gen := &fakeGenerator{responses: []string{resp}}
			planner := NewPlannerService(gen, 1024)

			brief, err := planner.CreateBrief(context.Background(), testInput)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, brief.RecipesToGenerate)
			assert.GreaterOrEqual(t, brief.RecipesToGenerate, 1)
			assert.LessOrEqual(t, brief.RecipesToGenerate, 3)
		})
	}
}

func TestCreateBriefAppliesDefaults(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{}`}}
	planner := NewPlannerService(gen, 1024)

	brief, err := planner.CreateBrief(context.Background(), testInput)
	require.NoError(t, err)

	assert.Equal(t, 10, brief.BottleSizeMl)
	assert.Equal(t, "moderate", brief.Intensity)
	assert.Equal(t, []string{"dark oud"}, brief.NoteFamilies)
	assert.Equal(t, 2, brief.RecipesToGenerate)
	assert.Equal(t, 6, brief.MaxIngredientsPerRecipe)
	assert.True(t, strings.Contains(brief.TargetProfile, "dark oud"))
}

func TestCreateBriefNonJSONResponse(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"I cannot help with that."}}
	planner := NewPlannerService(gen, 1024)

	_, err := planner.CreateBrief(context.Background(), testInput)
	require.Error(t, err)
	assert.True(t, common.IsSchemaValidationError(err))
}

func TestCreateBriefUpstreamError(t *testing.T) {
	gen := &fakeGenerator{err: common.NewUpstreamGenerationError(errors.New("backend status 503"))}
	planner := NewPlannerService(gen, 1024)

	_, err := planner.CreateBrief(context.Background(), testInput)
	require.Error(t, err)
	assert.True(t, common.IsUpstreamGenerationError(err))
}
