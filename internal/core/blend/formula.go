package blend

import (
	"context"
	"fmt"
	"strings"

	"perfume-pal/internal/pkg/common"

	"go.uber.org/zap"
)

const architectSystemPrompt = `You are a master perfumer and fragrance formulation expert.
Your role is to create detailed, practical perfume oil blend recipes based on a structured brief.

You must output ONLY valid JSON with no additional text, explanations, or markdown.

Output schema:
{
  "recipes": [
    {
      "name": "string - Creative recipe name",
      "description": "string - Brief description of the scent profile",
      "notes": {
        "top": ["array of top note materials"],
        "heart": ["array of heart/middle note materials"],
        "base": ["array of base note materials"]
      },
      "ingredients": [
        {
          "material": "string - ingredient name",
          "role": "string - top, heart, or base",
          "percent": number - percentage of total aromatic blend (all should sum to 100),
          "drops_for_bottle": number - calculated drops for the specified bottle size
        }
      ],
      "carrier": {
        "material": "string - carrier oil recommendation",
        "percent": 0
      },
      "instructions": [
        "array of step-by-step mixing instructions"
      ],
      "safety_note": "string - Safety and disclaimer information"
    }
  ]
}

Important formulation rules:
1. Top notes: 10-20% (volatile, citrus, herbs)
2. Heart notes: 30-50% (floral, spice, fruity)
3. Base notes: 30-60% (woods, resins, musk, amber)
4. All ingredient percents must sum to 100
5. drops_for_bottle should be calculated proportionally (1ml = 20 drops for essential oils)
6. Keep recipes realistic and mixable at home
7. Include safety warnings and patch test recommendations
8. If user has specific ingredients, try to incorporate them appropriately`

const defaultSafetyNote = "For external use only. Dilute in a carrier oil and patch test on a small area of skin 24 hours before wearing. Keep away from eyes, children and pets."

// FormulaService is the second pipeline stage: it turns a scent brief into
// complete perfume recipes.
type FormulaService struct {
	aiService Generator
	maxTokens int
}

// NewFormulaService creates the formula architect stage.
func NewFormulaService(aiService Generator, maxTokens int) *FormulaService {
	return &FormulaService{
		aiService: aiService,
		maxTokens: maxTokens,
	}
}

type recipesEnvelope struct {
	Recipes []Recipe `json:"recipes"`
}

// GenerateRecipes produces recipes for a brief, optionally steering toward the
// ingredients the user already owns.
func (s *FormulaService) GenerateRecipes(ctx context.Context, brief *ScentBrief, userIngredients []string) ([]Recipe, error) {
	var ownedHint string
	if len(userIngredients) > 0 {
		ownedHint = fmt.Sprintf("\nUser's Available Ingredients: %s\nTry to incorporate these when appropriate.",
			strings.Join(userIngredients, ", "))
	}

	prompt := fmt.Sprintf(`%s

Generate %d perfume oil recipes based on this brief:

Target Profile: %s
Bottle Size: %d ml
Intensity: %s
Note Families to Use: %s
Max Ingredients per Recipe: %d
%s
Constraints:
- Prefer user ingredients: %t
- Avoid overly sweet: %t
- Focus on natural: %t

Return ONLY the JSON with recipes array. No additional text.`,
		architectSystemPrompt,
		brief.RecipesToGenerate,
		brief.TargetProfile,
		brief.BottleSizeMl,
		brief.Intensity,
		strings.Join(brief.NoteFamilies, ", "),
		brief.MaxIngredientsPerRecipe,
		ownedHint,
		brief.Constraints.PreferUserIngredients,
		brief.Constraints.AvoidOverlySweet,
		brief.Constraints.FocusOnNatural)

	common.LogInfo("formula architect generating recipes",
		zap.Int("count", brief.RecipesToGenerate),
		zap.String("target_profile", brief.TargetProfile),
	)

	content, err := s.aiService.ProcessRequest(ctx, prompt, s.maxTokens)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, common.NewSchemaValidationError(fmt.Errorf("empty architect response"))
	}

	content = common.ExtractJSONObject(content)

	common.LogDebug("architect response",
		zap.Int("length", len(content)),
	)

	var envelope recipesEnvelope
	if err := common.ParseJSON(content, &envelope); err != nil {
		return nil, common.NewSchemaValidationError(fmt.Errorf("architect returned invalid JSON: %w", err))
	}

	if len(envelope.Recipes) == 0 {
		return nil, common.ErrEmptyResult
	}

	for i := range envelope.Recipes {
		s.finalizeRecipe(&envelope.Recipes[i], i, brief.BottleSizeMl)
	}

	common.LogInfo("formula architect generated recipes",
		zap.Int("count", len(envelope.Recipes)),
	)

	return envelope.Recipes, nil
}

// finalizeRecipe backfills missing text fields, renormalizes percents and
// recomputes drop counts from the bottle size. The model's own drop figures
// are never trusted.
func (s *FormulaService) finalizeRecipe(r *Recipe, index, bottleSizeMl int) {
	if r.Name == "" {
		r.Name = fmt.Sprintf("Untitled Blend %d", index+1)
	}
	if r.Description == "" {
		r.Description = "No description provided."
	}
	if r.SafetyNote == "" {
		r.SafetyNote = defaultSafetyNote
	}
	if len(r.Instructions) == 0 {
		r.Instructions = []string{
			"Add the aromatic ingredients to the bottle drop by drop.",
			"Top up with the carrier oil, cap and roll gently to mix.",
			"Let the blend rest for 48 hours before wearing.",
		}
	}

	NormalizePercents(r.Ingredients)
	for i := range r.Ingredients {
		if r.Ingredients[i].Material == "" {
			r.Ingredients[i].Material = "unknown material"
		}
		r.Ingredients[i].DropsForBottle = DropsForBottle(r.Ingredients[i].Percent, bottleSizeMl)
	}

	// recipes with an empty pyramid still carry ingredient roles; rebuild the
	// pyramid from those so the response never loses the note breakdown
	if r.Notes.IsEmpty() {
		for _, ing := range r.Ingredients {
			switch strings.ToLower(ing.Role) {
			case "top":
				r.Notes.Top = append(r.Notes.Top, ing.Material)
			case "heart", "middle":
				r.Notes.Heart = append(r.Notes.Heart, ing.Material)
			case "base":
				r.Notes.Base = append(r.Notes.Base, ing.Material)
			}
		}
	}
}
