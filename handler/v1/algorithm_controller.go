package v1

import (
	"net/http"

	"automl_backend/entity"
	"automl_backend/service"

	"github.com/gin-gonic/gin"
)

type AlgorithmController struct{}

func NewAlgorithmController() *AlgorithmController {
	return &AlgorithmController{}
}

// GetRecommendations handles GET /v1/algorithms/recommendations?problem_type=
func (c *AlgorithmController) GetRecommendations(ctx *gin.Context) {
	problemType := entity.ProblemType(ctx.Query("problem_type"))
	if !problemType.Valid() {
		writeHTTPError(ctx, service.ErrInvalidProblemType)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"problem_type":    problemType,
		"recommendations": service.RecommendationsFor(problemType),
	})
}

// GetDefaults handles GET /v1/algorithms/:id/defaults
// 未知算法返回空超参数表，不报错。
func (c *AlgorithmController) GetDefaults(ctx *gin.Context) {
	algorithmID := ctx.Param("id")
	ctx.JSON(http.StatusOK, gin.H{
		"algorithm":       algorithmID,
		"hyperparameters": service.DefaultHyperparameters(algorithmID),
	})
}
