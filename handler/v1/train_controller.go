package v1

import (
	"net/http"

	"automl_backend/entity"
	"automl_backend/service"

	"github.com/gin-gonic/gin"
)

type TrainController struct {
	trainingService *service.TrainingService
}

func NewTrainController() *TrainController {
	return &TrainController{
		trainingService: service.NewTrainingService(),
	}
}

type trainPayload struct {
	DatasetID    string   `json:"dataset_id" binding:"required"`
	ProblemType  string   `json:"problem_type" binding:"required"`
	Algorithms   []string `json:"algorithms"`
	TestFraction float64  `json:"test_fraction"`
	TrainerKey   string   `json:"trainer_key"`
}

// TrainAndCompare handles POST /v1/experiments/train
// 单算法失败不影响请求本身；全部失败也回 200，best_model 为空。
func (c *TrainController) TrainAndCompare(ctx *gin.Context) {
	var payload trainPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := c.trainingService.TrainAndCompare(ctx.Request.Context(), currentUserID(ctx), service.TrainOptions{
		DatasetID:    payload.DatasetID,
		ProblemType:  entity.ProblemType(payload.ProblemType),
		Algorithms:   payload.Algorithms,
		TestFraction: payload.TestFraction,
		TrainerKey:   payload.TrainerKey,
	})
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}
