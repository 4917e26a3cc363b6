package blend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	coreblend "perfume-pal/internal/core/blend"
	"perfume-pal/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateBlendsRequest is the POST /api/generate_blends body.
// user_ingredients accepts either a JSON array or a comma-separated string.
type GenerateBlendsRequest struct {
	Style           string                   `json:"style" binding:"required"`
	Strength        string                   `json:"strength" binding:"required"`
	BottleSizeMl    int                      `json:"bottle_size_ml" binding:"required"`
	VibeWords       []string                 `json:"vibe_words,omitempty"`
	UserIngredients coreblend.IngredientList `json:"user_ingredients,omitempty"`
}

// GenerateBlendsResponse wraps the generated recipes.
type GenerateBlendsResponse struct {
	Recipes []coreblend.Recipe `json:"recipes"`
}

// Workflow is the blend pipeline the handler drives.
type Workflow interface {
	GenerateBlends(ctx context.Context, input coreblend.PreferenceInput) ([]coreblend.Recipe, error)
}

// Handler serves the blend generation endpoint.
type Handler struct {
	workflow Workflow
}

// NewHandler creates the blend handler.
func NewHandler(workflow Workflow) *Handler {
	return &Handler{
		workflow: workflow,
	}
}

// HandleGenerateBlends validates the preferences and runs the two-stage
// pipeline. Validation failures never reach the generative backend.
func (h *Handler) HandleGenerateBlends(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("handling blend generation request",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req GenerateBlendsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("invalid request format",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid request format: " + err.Error(),
			"code":   common.ErrCodeInvalidRequest,
		})
		return
	}

	input, err := buildInput(&req)
	if err != nil {
		common.LogWarn("request validation failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
			"code":   common.ErrCodeInvalidRequest,
		})
		return
	}

	recipes, err := h.workflow.GenerateBlends(c.Request.Context(), input)
	if err != nil {
		status, detail, code := mapPipelineError(err)
		common.LogError("blend generation failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Int("status", status),
		)
		c.JSON(status, gin.H{
			"detail": detail,
			"code":   code,
		})
		return
	}

	common.LogInfo("blend generation succeeded",
		zap.String("request_id", requestID),
		zap.Int("recipes", len(recipes)),
	)

	c.JSON(http.StatusOK, GenerateBlendsResponse{Recipes: recipes})
}

// buildInput validates the request fields and converts them to a pipeline
// input.
func buildInput(req *GenerateBlendsRequest) (coreblend.PreferenceInput, error) {
	var input coreblend.PreferenceInput

	style := strings.TrimSpace(req.Style)
	if style == "" {
		return input, common.NewValidationError("style", "style must not be empty")
	}

	strength := strings.ToLower(strings.TrimSpace(req.Strength))
	if !coreblend.IsValidStrength(strength) {
		return input, common.NewValidationError("strength",
			"strength must be one of: subtle, moderate, strong")
	}

	if req.BottleSizeMl < coreblend.MinBottleSizeMl || req.BottleSizeMl > coreblend.MaxBottleSizeMl {
		return input, common.NewValidationError("bottle_size_ml",
			"bottle_size_ml must be between 5 and 100")
	}

	input = coreblend.PreferenceInput{
		Style:           style,
		Strength:        strength,
		BottleSizeMl:    req.BottleSizeMl,
		VibeWords:       req.VibeWords,
		UserIngredients: req.UserIngredients,
	}
	return input, nil
}

// mapPipelineError translates pipeline failures into HTTP responses.
func mapPipelineError(err error) (status int, detail, code string) {
	if common.IsValidationError(err) {
		return http.StatusBadRequest, err.Error(), common.ErrCodeInvalidRequest
	}

	var ce *common.CustomError
	if errors.As(err, &ce) {
		return ce.Status, ce.Message, ce.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "upstream generation timed out", common.ErrCodeGatewayTimeout
	}

	return http.StatusInternalServerError, "Failed to generate blends", common.ErrCodeInternalError
}
