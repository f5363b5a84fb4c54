package v1

import (
	"net/http"

	"automl_backend/entity"
	"automl_backend/service"

	"github.com/gin-gonic/gin"
)

type ExperimentController struct {
	experimentService *service.ExperimentService
}

func NewExperimentController() *ExperimentController {
	return &ExperimentController{
		experimentService: service.NewExperimentService(),
	}
}

// GetAllExperiments handles GET /v1/experiments
func (c *ExperimentController) GetAllExperiments(ctx *gin.Context) {
	var params entity.QueryParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.experimentService.GetAllExperiments(ctx.Request.Context(), currentUserID(ctx), params)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetExperiment handles GET /v1/experiments/:id
func (c *ExperimentController) GetExperiment(ctx *gin.Context) {
	experiment, err := c.experimentService.GetExperiment(ctx.Request.Context(), currentUserID(ctx), ctx.Param("id"))
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, experiment)
}

// DeleteExperiment handles DELETE /v1/experiments/:id
func (c *ExperimentController) DeleteExperiment(ctx *gin.Context) {
	if err := c.experimentService.DeleteExperiment(ctx.Request.Context(), currentUserID(ctx), ctx.Param("id")); err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "delete success"})
}
