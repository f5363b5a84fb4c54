package v1_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 测试环境不起 redis，注册表接口回 503
func TestListTrainersWithoutRedis(t *testing.T) {
	token := registerAndLogin(t, "trainer_user")

	w := performRequest(http.MethodGet, "/v1/trainers", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// 指定了 trainer_key 但 redis 没起，训练请求不能静默回落 base_url
func TestTrainWithTrainerKeyWithoutRedis(t *testing.T) {
	token := registerAndLogin(t, "trainer_key_user")
	datasetID := uploadCSVDataset(t, token, "trainer_key_data", trainCSV)

	w := performJSON(http.MethodPost, "/v1/experiments/train", token, map[string]interface{}{
		"dataset_id":   datasetID,
		"problem_type": "classification",
		"algorithms":   []string{"alpha"},
		"trainer_key":  "gpu-node-1",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
}
