package entity

import "time"

// ModelResult 远端训练服务返回的单算法结果，收到后不再修改。
// 失败的算法只带 error，training_metrics 为 null。
type ModelResult struct {
	Algorithm       string             `bson:"algorithm,omitempty" json:"algorithm,omitempty"`
	TrainingMetrics map[string]float64 `bson:"training_metrics" json:"training_metrics"`
	TestMetrics     map[string]float64 `bson:"test_metrics,omitempty" json:"test_metrics,omitempty"`
	Metrics         map[string]float64 `bson:"metrics,omitempty" json:"metrics,omitempty"`
	F1Score         *float64           `bson:"f1_score,omitempty" json:"f1_score,omitempty"`
	R2Score         *float64           `bson:"r2_score,omitempty" json:"r2_score,omitempty"`
	SilhouetteScore *float64           `bson:"silhouette_score,omitempty" json:"silhouette_score,omitempty"`
	PrimaryMetric   *float64           `bson:"primary_metric,omitempty" json:"primary_metric,omitempty"`
	Error           string             `bson:"error,omitempty" json:"error,omitempty"`
}

// Failed 报告该结果是否来自一次失败的远端调用。
func (r *ModelResult) Failed() bool {
	return r != nil && r.Error != ""
}

// BestModel 对比胜出的模型。Metrics 必须指向同一实验 Results 中的某条记录。
type BestModel struct {
	Algorithm string       `bson:"algorithm" json:"algorithm"`
	Score     float64      `bson:"score" json:"score"`
	Metrics   *ModelResult `bson:"metrics" json:"metrics"`
}

// Experiment 状态流转
const (
	ExperimentStatusCreated   = "created"
	ExperimentStatusTraining  = "training"
	ExperimentStatusCompleted = "completed"
	ExperimentStatusFailed    = "failed"
)

// Experiment 一次多算法对比的持久化聚合，完成后除状态外不可变。
type Experiment struct {
	ID               string                  `bson:"_id,omitempty" json:"id"`
	UserID           string                  `bson:"user_id" json:"user_id"`
	DatasetID        string                  `bson:"dataset_id" json:"dataset_id"`
	DatasetName      string                  `bson:"dataset_name" json:"dataset_name"`
	ProblemType      ProblemType             `bson:"problem_type" json:"problem_type"`
	Algorithms       []string                `bson:"algorithms" json:"algorithms"`
	TestFraction     float64                 `bson:"test_fraction" json:"test_fraction"`
	TrainingSize     int                     `bson:"training_size" json:"training_size"`
	TestSize         int                     `bson:"test_size" json:"test_size"`
	Status           string                  `bson:"status" json:"status"`
	Results          map[string]*ModelResult `bson:"results" json:"results"`
	BestModel        *BestModel              `bson:"best_model,omitempty" json:"best_model,omitempty"`
	SuccessfulModels int                     `bson:"successful_models" json:"successful_models"`
	CreatedAt        time.Time               `bson:"created_at" json:"created_at"`
	CompletedAt      *time.Time              `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
