package blend

import (
	"context"
	"errors"
	"testing"

	"perfume-pal/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkflow(gen Generator) *Workflow {
	return NewWorkflow(
		NewPlannerService(gen, 1024),
		NewFormulaService(gen, 3072),
	)
}

func TestWorkflowRunsBothStagesInOrder(t *testing.T) {
	gen := &fakeGenerator{responses: []string{validBriefJSON, validRecipesJSON}}
	workflow := newTestWorkflow(gen)

	recipes, err := workflow.GenerateBlends(context.Background(), testInput)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, 2, gen.calls)

	// the second prompt is built from the first stage's brief
	assert.Contains(t, gen.prompts[1], "A smoky, resinous oud fragrance with warm depth")
}

func TestWorkflowStopsAfterPlannerFailure(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"not json at all"}}
	workflow := newTestWorkflow(gen)

	_, err := workflow.GenerateBlends(context.Background(), testInput)
	require.Error(t, err)
	assert.True(t, common.IsSchemaValidationError(err))
	// the architect stage never ran
	assert.Equal(t, 1, gen.calls)
}

func TestWorkflowPropagatesUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: common.NewUpstreamGenerationError(errors.New("dial timeout"))}
	workflow := newTestWorkflow(gen)

	_, err := workflow.GenerateBlends(context.Background(), testInput)
	require.Error(t, err)
	assert.True(t, common.IsUpstreamGenerationError(err))
	assert.Equal(t, 1, gen.calls)
}

func TestWorkflowIncorporatesOwnedIngredients(t *testing.T) {
	gen := &fakeGenerator{responses: []string{validBriefJSON, validRecipesJSON}}
	workflow := newTestWorkflow(gen)

	recipes, err := workflow.GenerateBlends(context.Background(), testInput)
	require.NoError(t, err)

	// best-effort incorporation: an owned material appears in the result
	found := false
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			if ing.Material == "oud" || ing.Material == "sandalwood" {
				found = true
			}
		}
	}
	assert.True(t, found)
}
