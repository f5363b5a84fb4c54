package v1

import (
	"errors"
	"net/http"

	"automl_backend/service"

	"github.com/gin-gonic/gin"
)

// TrainerController 查询 Redis 注册表中的训练服务实例。
type TrainerController struct{}

func NewTrainerController() *TrainerController {
	return &TrainerController{}
}

// ListTrainers handles GET /v1/trainers
func (c *TrainerController) ListTrainers(ctx *gin.Context) {
	trainers, err := service.ListTrainers(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRedisNotInitialized) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total":    len(trainers),
		"trainers": trainers,
	})
}
