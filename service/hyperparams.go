package service

// 四个算法族的默认超参数。数值与远端训练服务的 sklearn 缺省对齐。
var defaultHyperparameters = map[string]map[string]interface{}{
	// regression
	"linear_regression":           {"fit_intercept": true},
	"ridge":                       {"alpha": 1.0},
	"lasso":                       {"alpha": 1.0},
	"random_forest_regressor":     {"n_estimators": 100, "max_depth": 10},
	"gradient_boosting_regressor": {"n_estimators": 100, "learning_rate": 0.1},
	"svr":                         {"C": 1.0, "kernel": "rbf"},

	// classification
	"logistic_regression":          {"C": 1.0, "max_iter": 1000},
	"random_forest_classifier":     {"n_estimators": 100, "max_depth": 10},
	"gradient_boosting_classifier": {"n_estimators": 100, "learning_rate": 0.1},
	"svm":                          {"C": 1.0, "kernel": "rbf"},
	"knn":                          {"n_neighbors": 5},
	"decision_tree":                {"max_depth": 10},
	"naive_bayes":                  {},

	// clustering
	"kmeans":       {"n_clusters": 3, "max_iter": 300},
	"dbscan":       {"eps": 0.5, "min_samples": 5},
	"hierarchical": {"n_clusters": 3, "linkage": "ward"},

	// dimensionality reduction
	"pca":  {"n_components": 2},
	"tsne": {"n_components": 2, "perplexity": 30.0},
}

// DefaultHyperparameters 按算法返回默认超参数。未知算法返回空 map，不报错。
// 返回的是副本，调用方可以随意改。
func DefaultHyperparameters(algorithmID string) map[string]interface{} {
	params, ok := defaultHyperparameters[algorithmID]
	if !ok {
		return map[string]interface{}{}
	}

	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
