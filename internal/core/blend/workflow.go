package blend

import (
	"context"

	"perfume-pal/internal/pkg/common"

	"go.uber.org/zap"
)

// Workflow sequences the two pipeline stages: planner then architect. The
// stages run strictly in order and the first failure aborts the request; the
// architect is never invoked when the planner fails.
type Workflow struct {
	planner *PlannerService
	formula *FormulaService
}

// NewWorkflow composes the pipeline over a shared generator.
func NewWorkflow(planner *PlannerService, formula *FormulaService) *Workflow {
	return &Workflow{
		planner: planner,
		formula: formula,
	}
}

// GenerateBlends runs the full pipeline for one preference input.
func (w *Workflow) GenerateBlends(ctx context.Context, input PreferenceInput) ([]Recipe, error) {
	common.LogInfo("starting blend workflow",
		zap.String("style", input.Style),
		zap.Int("bottle_size_ml", input.BottleSizeMl),
	)

	brief, err := w.planner.CreateBrief(ctx, input)
	if err != nil {
		common.LogError("scent planner stage failed", zap.Error(err))
		return nil, err
	}

	recipes, err := w.formula.GenerateRecipes(ctx, brief, input.UserIngredients)
	if err != nil {
		common.LogError("formula architect stage failed", zap.Error(err))
		return nil, err
	}

	common.LogInfo("blend workflow completed",
		zap.Int("recipes", len(recipes)),
	)

	return recipes, nil
}
