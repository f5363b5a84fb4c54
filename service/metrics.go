package service

import "automl_backend/entity"

// PrimaryMetric 从单算法结果中取出该任务类型的主指标。
// 字段缺失一律回落 0，绝不报错。
// 注意：回归缺失同样回落 0 而不是 -Inf，负 R² 的模型会和"无数据"打平，
// 这是沿袭下来的行为，未经产品确认不要改。
func PrimaryMetric(result *entity.ModelResult, problemType entity.ProblemType) float64 {
	if result == nil {
		return 0
	}

	switch problemType {
	case entity.ProblemRegression:
		if result.R2Score != nil {
			return *result.R2Score
		}
		if v, ok := result.TestMetrics["r2_score"]; ok {
			return v
		}
		return 0
	case entity.ProblemClustering:
		if result.SilhouetteScore != nil {
			return *result.SilhouetteScore
		}
		return 0
	default:
		// classification 以及其余任务类型都走 f1 规则
		if result.F1Score != nil {
			return *result.F1Score
		}
		if v, ok := result.TestMetrics["f1_score"]; ok {
			return v
		}
		return 0
	}
}

// ComparisonMetric 多算法对比环节的取数规则。与 PrimaryMetric 是刻意
// 保留的两套规则（accuracy vs f1），合并属于行为变更，不在这里做。
func ComparisonMetric(result *entity.ModelResult, problemType entity.ProblemType) float64 {
	if result == nil {
		return 0
	}

	switch problemType {
	case entity.ProblemRegression:
		if v, ok := result.TestMetrics["r2_score"]; ok {
			return v
		}
		if v, ok := result.TrainingMetrics["r2_score"]; ok {
			return v
		}
		return 0
	case entity.ProblemClustering:
		if v, ok := result.Metrics["silhouette_score"]; ok {
			return v
		}
		return 0
	default:
		if v, ok := result.TestMetrics["accuracy"]; ok {
			return v
		}
		if v, ok := result.TrainingMetrics["accuracy"]; ok {
			return v
		}
		return 0
	}
}
