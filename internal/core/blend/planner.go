package blend

import (
	"context"
	"fmt"
	"strings"

	"perfume-pal/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator produces a JSON-shaped completion for a prompt.
type Generator interface {
	ProcessRequest(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Brief bounds applied to planner output.
const (
	defaultRecipeCount = 2
	maxRecipeCount     = 3
	defaultMaxIngr     = 6
	minMaxIngr         = 3
	maxMaxIngr         = 8
)

const plannerSystemPrompt = `You are an expert perfume consultant and scent analyst.
Your role is to analyze user preferences for perfumes and create a structured brief
for fragrance creation.

You must output ONLY valid JSON with no additional text, explanations, or markdown.

Output schema:
{
  "target_profile": "string - A descriptive summary of the desired scent profile",
  "bottle_size_ml": number,
  "intensity": "string - subtle, moderate, or strong",
  "note_families": ["array of scent families like oud, citrus, floral, amber, musk, etc."],
  "recipes_to_generate": number (default 2),
  "max_ingredients_per_recipe": number (default 6),
  "constraints": {
    "prefer_user_ingredients": boolean,
    "avoid_overly_sweet": boolean,
    "focus_on_natural": boolean
  }
}

Consider fragrance note pyramids (top, heart, base) and classic perfumery principles.
If user provides their own ingredients, incorporate them into the note_families where appropriate.`

// PlannerService is the first pipeline stage: it turns raw preferences into a
// structured scent brief.
type PlannerService struct {
	aiService Generator
	maxTokens int
}

// NewPlannerService creates the planner stage.
func NewPlannerService(aiService Generator, maxTokens int) *PlannerService {
	return &PlannerService{
		aiService: aiService,
		maxTokens: maxTokens,
	}
}

// CreateBrief asks the backend for a scent brief matching the user's
// preferences and validates its shape.
func (s *PlannerService) CreateBrief(ctx context.Context, input PreferenceInput) (*ScentBrief, error) {
	prompt := fmt.Sprintf(`%s

Create a perfume brief based on these preferences:

Style: %s
Strength: %s
Bottle Size: %d ml
Vibe Words: %s
User's Ingredients: %s

Return ONLY the JSON brief with no additional text.`,
		plannerSystemPrompt,
		input.Style,
		input.Strength,
		input.BottleSizeMl,
		strings.Join(input.VibeWords, ", "),
		strings.Join(input.UserIngredients, ", "))

	common.LogInfo("scent planner processing preferences",
		zap.String("style", input.Style),
		zap.String("strength", input.Strength),
	)

	content, err := s.aiService.ProcessRequest(ctx, prompt, s.maxTokens)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, common.NewSchemaValidationError(fmt.Errorf("empty planner response"))
	}

	content = common.ExtractJSONObject(content)

	common.LogDebug("planner response",
		zap.Int("length", len(content)),
	)

	var brief ScentBrief
	if err := common.ParseJSON(content, &brief); err != nil {
		return nil, common.NewSchemaValidationError(fmt.Errorf("planner returned invalid JSON: %w", err))
	}

	s.applyDefaults(&brief, input)

	common.LogInfo("scent brief created",
		zap.String("target_profile", brief.TargetProfile),
		zap.Int("recipes_to_generate", brief.RecipesToGenerate),
	)

	return &brief, nil
}

// applyDefaults backfills missing fields from the user input and clamps the
// numeric knobs to sane ranges.
func (s *PlannerService) applyDefaults(brief *ScentBrief, input PreferenceInput) {
	// the bottle size is the user's, whatever the model echoed back
	brief.BottleSizeMl = input.BottleSizeMl

	if brief.TargetProfile == "" {
		brief.TargetProfile = fmt.Sprintf("A %s %s fragrance", input.Strength, input.Style)
	}
	if brief.Intensity == "" {
		brief.Intensity = strings.ToLower(input.Strength)
	}
	if len(brief.NoteFamilies) == 0 {
		brief.NoteFamilies = []string{input.Style}
	}

	if brief.RecipesToGenerate <= 0 {
		brief.RecipesToGenerate = defaultRecipeCount
	}
	if brief.RecipesToGenerate > maxRecipeCount {
		brief.RecipesToGenerate = maxRecipeCount
	}

	if brief.MaxIngredientsPerRecipe <= 0 {
		brief.MaxIngredientsPerRecipe = defaultMaxIngr
	}
	if brief.MaxIngredientsPerRecipe < minMaxIngr {
		brief.MaxIngredientsPerRecipe = minMaxIngr
	}
	if brief.MaxIngredientsPerRecipe > maxMaxIngr {
		brief.MaxIngredientsPerRecipe = maxMaxIngr
	}
}
