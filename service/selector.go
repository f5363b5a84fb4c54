package service

import "automl_backend/entity"

// SelectBest 在有序结果集中选出主指标最大的一个。空输入返回 nil。
// 替换条件是严格大于，指标持平时先出现者胜，保证同一输入选择确定。
func SelectBest(results []*entity.ModelResult, problemType entity.ProblemType) *entity.ModelResult {
	return SelectBestBy(results, func(r *entity.ModelResult) float64 {
		return PrimaryMetric(r, problemType)
	})
}

// SelectBestBy 同 SelectBest，取数规则由调用方提供。
// 胜者是输入中的那个元素（不是副本），返回前标注 primary_metric。
func SelectBestBy(results []*entity.ModelResult, extract func(*entity.ModelResult) float64) *entity.ModelResult {
	if len(results) == 0 {
		return nil
	}

	best := results[0]
	bestScore := extract(best)
	for _, candidate := range results[1:] {
		if score := extract(candidate); score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	annotated := bestScore
	best.PrimaryMetric = &annotated
	return best
}
