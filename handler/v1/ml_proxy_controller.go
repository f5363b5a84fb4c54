package v1

import (
	"net/http"

	"automl_backend/service"

	"github.com/gin-gonic/gin"
)

// MLProxyController 把预处理/调参/评估请求透传给远端 ML 服务，
// 远端的状态码和响应体原样带回。
type MLProxyController struct {
	client *service.MLClient
}

func NewMLProxyController() *MLProxyController {
	return &MLProxyController{
		client: service.NewMLClient(),
	}
}

// Preprocess handles POST /v1/ml/preprocess
func (c *MLProxyController) Preprocess(ctx *gin.Context) {
	c.forward(ctx, "/preprocess")
}

// Tune handles POST /v1/ml/tune
func (c *MLProxyController) Tune(ctx *gin.Context) {
	c.forward(ctx, "/tune")
}

// Evaluate handles POST /v1/ml/evaluate
func (c *MLProxyController) Evaluate(ctx *gin.Context) {
	c.forward(ctx, "/evaluate")
}

func (c *MLProxyController) forward(ctx *gin.Context, path string) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, status, err := c.client.Forward(ctx.Request.Context(), path, payload)
	if err != nil {
		handlerLogger().Error("forward to ml service failed", "path", path, "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ctx.Data(status, "application/json", body)
}
