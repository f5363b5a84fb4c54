package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"automl_backend/config"
	"automl_backend/dao"
	"automl_backend/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrainer 顶替远端 ML 服务：按算法名决定 accuracy，
// failWith 里的算法回 500。记录收到的请求以便断言。
type fakeTrainer struct {
	mu        sync.Mutex
	accuracy  map[string]float64
	failWith  map[string]string
	requests  []TrainRequest
}

func (f *fakeTrainer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		if msg, ok := f.failWith[req.Algorithm]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
			return
		}

		acc := f.accuracy[req.Algorithm]
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"algorithm":        req.Algorithm,
			"training_metrics": map[string]float64{"accuracy": acc},
			"test_metrics":     map[string]float64{"accuracy": acc},
		})
	}
}

func (f *fakeTrainer) received() []TrainRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]TrainRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func initMemoryBackendForTest(t *testing.T, mlURL string) {
	t.Helper()

	cfg := &config.Config{
		Storage: config.StorageConfig{Backend: "memory"},
		ML:      config.MLConfig{BaseURL: mlURL, TimeoutSeconds: 5},
	}
	config.AppConfig = cfg
	require.NoError(t, dao.Init(cfg))
}

func seedDataset(t *testing.T, userID string, rows int) *entity.Dataset {
	t.Helper()

	data := make([]map[string]interface{}, 0, rows)
	for i := 0; i < rows; i++ {
		data = append(data, map[string]interface{}{
			"x1":    fmt.Sprintf("%d", i),
			"x2":    "blue",
			"label": fmt.Sprintf("%d", i%2),
		})
	}
	dataset := &entity.Dataset{
		UserID:       userID,
		Name:         fmt.Sprintf("unittest_dataset_%d", rows),
		Columns:      []string{"x1", "x2", "label"},
		Rows:         data,
		TargetColumn: "label",
		RowCount:     rows,
	}
	require.NoError(t, dao.NewDatasetStore().Save(context.Background(), dataset))
	return dataset
}

func TestTrainAndCompareSplitIsPositional(t *testing.T) {
	trainer := &fakeTrainer{accuracy: map[string]float64{"logistic_regression": 0.9}}
	srv := httptest.NewServer(trainer.handler())
	defer srv.Close()

	initMemoryBackendForTest(t, srv.URL)
	dataset := seedDataset(t, "u1", 100)

	svc := NewTrainingService()
	outcome, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:    dataset.ID,
		ProblemType:  entity.ProblemClassification,
		Algorithms:   []string{"logistic_regression"},
		TestFraction: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, 80, outcome.Summary.TrainingSize)
	assert.Equal(t, 20, outcome.Summary.TestSize)

	requests := trainer.received()
	require.Len(t, requests, 1)
	req := requests[0]
	require.Len(t, req.XTrain, 80)
	require.Len(t, req.XTest, 20)
	require.Len(t, req.YTrain, 80)
	require.Len(t, req.YTest, 20)

	// 位置切分不洗牌：训练段是 0..79，测试段是 80..99
	assert.Equal(t, []interface{}{0.0, "blue"}, req.XTrain[0])
	assert.Equal(t, []interface{}{79.0, "blue"}, req.XTrain[79])
	assert.Equal(t, []interface{}{80.0, "blue"}, req.XTest[0])
	assert.Equal(t, []interface{}{99.0, "blue"}, req.XTest[19])

	// 逐格数值化：label "0"/"1" 变成数字
	assert.Equal(t, 0.0, req.YTrain[0])
	assert.Equal(t, 1.0, req.YTrain[1])
}

func TestTrainAndCompareFailureIsolation(t *testing.T) {
	trainer := &fakeTrainer{
		accuracy: map[string]float64{"alpha": 0.8, "gamma": 0.7},
		failWith: map[string]string{"broken": "cuda out of memory"},
	}
	srv := httptest.NewServer(trainer.handler())
	defer srv.Close()

	initMemoryBackendForTest(t, srv.URL)
	dataset := seedDataset(t, "u1", 50)

	svc := NewTrainingService()
	outcome, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:    dataset.ID,
		ProblemType:  entity.ProblemClassification,
		Algorithms:   []string{"alpha", "broken", "gamma"},
		TestFraction: 0.2,
	})
	require.NoError(t, err, "单算法失败不应让整个请求失败")

	require.Len(t, outcome.Results, 3)
	assert.True(t, outcome.Results["broken"].Failed())
	assert.Contains(t, outcome.Results["broken"].Error, "500")
	assert.Contains(t, outcome.Results["broken"].Error, "cuda out of memory")
	assert.False(t, outcome.Results["alpha"].Failed())
	assert.False(t, outcome.Results["gamma"].Failed())

	// 失败的算法之后还得继续：三次调用按请求顺序到达
	requests := trainer.received()
	require.Len(t, requests, 3)
	assert.Equal(t, "alpha", requests[0].Algorithm)
	assert.Equal(t, "broken", requests[1].Algorithm)
	assert.Equal(t, "gamma", requests[2].Algorithm)

	// 最优只会从成功的子集里出
	require.NotNil(t, outcome.BestModel)
	assert.Equal(t, "alpha", outcome.BestModel.Algorithm)
	assert.InDelta(t, 0.8, outcome.BestModel.Score, 1e-9)
	assert.Same(t, outcome.Results["alpha"], outcome.BestModel.Metrics, "best model 必须引用结果集里的记录")

	assert.Equal(t, 3, outcome.Summary.AlgorithmsTraining)
	assert.Equal(t, 2, outcome.Summary.SuccessfulModels)

	// 实验已落库且状态完成
	experiment, err := dao.NewExperimentStore().FindByID(context.Background(), "u1", outcome.ExperimentID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExperimentStatusCompleted, experiment.Status)
	assert.Equal(t, 2, experiment.SuccessfulModels)
	require.NotNil(t, experiment.BestModel)
	assert.Equal(t, "alpha", experiment.BestModel.Algorithm)
}

func TestTrainAndCompareTieFirstRequestedWins(t *testing.T) {
	trainer := &fakeTrainer{accuracy: map[string]float64{"alpha": 0.9, "beta": 0.9, "gamma": 0.7}}
	srv := httptest.NewServer(trainer.handler())
	defer srv.Close()

	initMemoryBackendForTest(t, srv.URL)
	dataset := seedDataset(t, "u1", 30)

	svc := NewTrainingService()
	outcome, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:    dataset.ID,
		ProblemType:  entity.ProblemClassification,
		Algorithms:   []string{"alpha", "beta", "gamma"},
		TestFraction: 0.2,
	})
	require.NoError(t, err)

	require.NotNil(t, outcome.BestModel)
	assert.Equal(t, "alpha", outcome.BestModel.Algorithm, "指标持平时先请求者胜")
}

func TestTrainAndCompareAllAlgorithmsFail(t *testing.T) {
	trainer := &fakeTrainer{
		failWith: map[string]string{"a": "boom", "b": "boom"},
	}
	srv := httptest.NewServer(trainer.handler())
	defer srv.Close()

	initMemoryBackendForTest(t, srv.URL)
	dataset := seedDataset(t, "u1", 20)

	svc := NewTrainingService()
	outcome, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:    dataset.ID,
		ProblemType:  entity.ProblemClassification,
		Algorithms:   []string{"a", "b"},
		TestFraction: 0.2,
	})
	require.NoError(t, err, "全部失败请求也算成功，best_model 为空")

	assert.Nil(t, outcome.BestModel)
	assert.Equal(t, 0, outcome.Summary.SuccessfulModels)
	require.Len(t, outcome.Results, 2)

	experiment, err := dao.NewExperimentStore().FindByID(context.Background(), "u1", outcome.ExperimentID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExperimentStatusFailed, experiment.Status)
	assert.Nil(t, experiment.BestModel)
}

func TestTrainAndCompareEmptyAlgorithmsRejectedBeforeRemoteCall(t *testing.T) {
	trainer := &fakeTrainer{}
	srv := httptest.NewServer(trainer.handler())
	defer srv.Close()

	initMemoryBackendForTest(t, srv.URL)
	dataset := seedDataset(t, "u1", 10)

	svc := NewTrainingService()
	_, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:   dataset.ID,
		ProblemType: entity.ProblemClassification,
		Algorithms:  nil,
	})
	assert.ErrorIs(t, err, ErrAlgorithmsRequired)
	assert.Empty(t, trainer.received(), "校验失败前不能有任何远端调用")
}

func TestTrainAndCompareValidation(t *testing.T) {
	initMemoryBackendForTest(t, "http://127.0.0.1:1")
	dataset := seedDataset(t, "u1", 10)

	svc := NewTrainingService()

	_, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:    dataset.ID,
		ProblemType:  entity.ProblemClassification,
		Algorithms:   []string{"a"},
		TestFraction: 1.5,
	})
	assert.ErrorIs(t, err, ErrInvalidTestFraction)

	_, err = svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:   dataset.ID,
		ProblemType: entity.ProblemType("fortune_telling"),
		Algorithms:  []string{"a"},
	})
	assert.ErrorIs(t, err, ErrInvalidProblemType)
}

func TestTrainAndCompareDatasetNotFound(t *testing.T) {
	initMemoryBackendForTest(t, "http://127.0.0.1:1")

	svc := NewTrainingService()
	_, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:   "does-not-exist",
		ProblemType: entity.ProblemClassification,
		Algorithms:  []string{"a"},
	})
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestTrainAndCompareOwnershipIsEnforced(t *testing.T) {
	initMemoryBackendForTest(t, "http://127.0.0.1:1")
	dataset := seedDataset(t, "owner", 10)

	svc := NewTrainingService()
	_, err := svc.TrainAndCompare(context.Background(), "someone-else", TrainOptions{
		DatasetID:   dataset.ID,
		ProblemType: entity.ProblemClassification,
		Algorithms:  []string{"a"},
	})
	assert.ErrorIs(t, err, dao.ErrNotFound, "别人的数据集等同于不存在")
}

func TestTrainAndCompareDefaultTestFraction(t *testing.T) {
	trainer := &fakeTrainer{accuracy: map[string]float64{"a": 0.5}}
	srv := httptest.NewServer(trainer.handler())
	defer srv.Close()

	initMemoryBackendForTest(t, srv.URL)
	dataset := seedDataset(t, "u1", 100)

	svc := NewTrainingService()
	outcome, err := svc.TrainAndCompare(context.Background(), "u1", TrainOptions{
		DatasetID:   dataset.ID,
		ProblemType: entity.ProblemClassification,
		Algorithms:  []string{"a"},
	})
	require.NoError(t, err)
	assert.Equal(t, 80, outcome.Summary.TrainingSize, "缺省 test_fraction 0.2")
	assert.Equal(t, 20, outcome.Summary.TestSize)
}

func TestCoerceCell(t *testing.T) {
	assert.Equal(t, 3.14, coerceCell("3.14"))
	assert.Equal(t, 7.0, coerceCell(" 7 "))
	assert.Equal(t, -2.5, coerceCell("-2.5"))
	assert.Equal(t, "abc", coerceCell("abc"))
	assert.Equal(t, "", coerceCell(""))
	assert.Equal(t, 42, coerceCell(42), "非字符串原样保留")
	assert.Nil(t, coerceCell(nil))
}
