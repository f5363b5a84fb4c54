package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"automl_backend/config"
	"automl_backend/dao"
	"automl_backend/entity"
)

const defaultTestFraction = 0.2

var (
	ErrAlgorithmsRequired  = errors.New("algorithms list is required")
	ErrInvalidTestFraction = errors.New("test_fraction must be greater than 0 and less than 1")
	ErrInvalidProblemType  = errors.New("problem_type must be one of classification, regression, clustering, dimensionality_reduction")
)

// TrainingService 多算法对比编排：取数、切分、逐算法远端训练、选优、落库。
type TrainingService struct {
	datasetStore    dao.DatasetStore
	experimentStore dao.ExperimentStore
}

func NewTrainingService() *TrainingService {
	return &TrainingService{
		datasetStore:    dao.NewDatasetStore(),
		experimentStore: dao.NewExperimentStore(),
	}
}

// TrainOptions 一次对比请求的输入。
type TrainOptions struct {
	DatasetID    string
	ProblemType  entity.ProblemType
	Algorithms   []string
	TestFraction float64
	TrainerKey   string // 可选，指定注册表中的训练实例
}

// TrainSummary 返回给调用方的汇总信息。
type TrainSummary struct {
	AlgorithmsTraining int                `json:"algorithms_training"`
	SuccessfulModels   int                `json:"successful_models"`
	TestSize           int                `json:"test_size"`
	TrainingSize       int                `json:"training_size"`
	DatasetName        string             `json:"dataset_name"`
	ProblemType        entity.ProblemType `json:"problem_type"`
}

// TrainOutcome 一次对比请求的完整结果。
type TrainOutcome struct {
	ExperimentID string                         `json:"experiment_id"`
	Results      map[string]*entity.ModelResult `json:"results"`
	BestModel    *entity.BestModel              `json:"best_model"`
	Summary      TrainSummary                   `json:"summary"`
}

// TrainAndCompare 对请求的每个算法各发一次远端训练调用。单算法失败只记录
// 不中断，后续算法照常尝试；全部失败时请求仍算成功，best_model 为空。
func (s *TrainingService) TrainAndCompare(ctx context.Context, userID string, opts TrainOptions) (*TrainOutcome, error) {
	logger := serviceLogger().With("service", "TrainingService", "method", "TrainAndCompare")

	if len(opts.Algorithms) == 0 {
		return nil, ErrAlgorithmsRequired
	}
	if opts.TestFraction == 0 {
		opts.TestFraction = defaultTestFraction
	}
	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		return nil, ErrInvalidTestFraction
	}
	if !opts.ProblemType.Valid() {
		return nil, ErrInvalidProblemType
	}

	dataset, err := s.datasetStore.FindByID(ctx, userID, opts.DatasetID)
	if err != nil {
		return nil, err
	}

	X, y := buildMatrices(dataset)

	// 确定性的位置切分：前段训练后段测试，不洗牌，保证可复现
	n := len(X)
	trainSize := int(math.Floor(float64(n) * (1 - opts.TestFraction)))
	XTrain, XTest := X[:trainSize], X[trainSize:]
	yTrain, yTest := y[:trainSize], y[trainSize:]

	baseURL, err := ResolveTrainerURL(ctx, opts.TrainerKey)
	if err != nil {
		return nil, err
	}
	client := NewMLClientWithURL(baseURL, s.trainTimeout())

	experiment := &entity.Experiment{
		UserID:       userID,
		DatasetID:    dataset.ID,
		DatasetName:  dataset.Name,
		ProblemType:  opts.ProblemType,
		Algorithms:   opts.Algorithms,
		TestFraction: opts.TestFraction,
		TrainingSize: trainSize,
		TestSize:     n - trainSize,
		Status:       entity.ExperimentStatusCreated,
		CreatedAt:    time.Now(),
	}
	if err := s.experimentStore.Save(ctx, experiment); err != nil {
		return nil, err
	}
	if err := s.experimentStore.UpdateStatus(ctx, userID, experiment.ID, entity.ExperimentStatusTraining); err != nil {
		return nil, err
	}

	logger.Info("training begin",
		"experiment_id", experiment.ID,
		"dataset_id", dataset.ID,
		"algorithms", len(opts.Algorithms),
		"train_size", trainSize,
		"test_size", n-trainSize,
	)

	results := make(map[string]*entity.ModelResult, len(opts.Algorithms))
	// 非失败结果按请求顺序收集，选优时持平者按请求顺序先到先得
	var successes []*entity.ModelResult

	for _, algorithm := range opts.Algorithms {
		result, err := client.Train(ctx, &TrainRequest{
			Algorithm:       algorithm,
			ProblemType:     opts.ProblemType,
			XTrain:          XTrain,
			YTrain:          yTrain,
			XTest:           XTest,
			YTest:           yTest,
			Hyperparameters: DefaultHyperparameters(algorithm),
		})
		if err != nil {
			logger.Warn("algorithm training failed", "experiment_id", experiment.ID, "algorithm", algorithm, "error", err)
			results[algorithm] = &entity.ModelResult{
				Algorithm: algorithm,
				Error:     err.Error(),
			}
			continue
		}
		results[algorithm] = result
		successes = append(successes, result)
	}

	best := SelectBestBy(successes, func(r *entity.ModelResult) float64 {
		return ComparisonMetric(r, opts.ProblemType)
	})

	var bestModel *entity.BestModel
	if best != nil {
		bestModel = &entity.BestModel{
			Algorithm: best.Algorithm,
			Score:     *best.PrimaryMetric,
			Metrics:   best,
		}
	}

	experiment.Results = results
	experiment.BestModel = bestModel
	experiment.SuccessfulModels = len(successes)
	if len(successes) == 0 {
		experiment.Status = entity.ExperimentStatusFailed
	} else {
		experiment.Status = entity.ExperimentStatusCompleted
	}
	now := time.Now()
	experiment.CompletedAt = &now

	if err := s.experimentStore.Update(ctx, experiment); err != nil {
		return nil, err
	}

	logger.Info("training done",
		"experiment_id", experiment.ID,
		"status", experiment.Status,
		"successful_models", experiment.SuccessfulModels,
	)

	return &TrainOutcome{
		ExperimentID: experiment.ID,
		Results:      results,
		BestModel:    bestModel,
		Summary: TrainSummary{
			AlgorithmsTraining: len(opts.Algorithms),
			SuccessfulModels:   len(successes),
			TestSize:           n - trainSize,
			TrainingSize:       trainSize,
			DatasetName:        dataset.Name,
			ProblemType:        opts.ProblemType,
		},
	}, nil
}

func (s *TrainingService) trainTimeout() time.Duration {
	if config.AppConfig != nil && config.AppConfig.ML.TimeoutSeconds > 0 {
		return time.Duration(config.AppConfig.ML.TimeoutSeconds) * time.Second
	}
	return 300 * time.Second
}

// buildMatrices 把行文档按列顺序展开成 (X, y)。特征列顺序沿用数据集列顺序，
// 目标列剔除。
func buildMatrices(dataset *entity.Dataset) ([][]interface{}, []interface{}) {
	features := make([]string, 0, len(dataset.Columns))
	for _, col := range dataset.Columns {
		if col != dataset.TargetColumn {
			features = append(features, col)
		}
	}

	X := make([][]interface{}, 0, len(dataset.Rows))
	y := make([]interface{}, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		vec := make([]interface{}, len(features))
		for i, col := range features {
			vec[i] = coerceCell(row[col])
		}
		X = append(X, vec)
		y = append(y, coerceCell(row[dataset.TargetColumn]))
	}
	return X, y
}

// coerceCell 逐格尝试数值化，转不动就保留原值。按格不按列，混合类型列是允许的。
func coerceCell(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return parsed
	}
	return s
}
