package service

import "automl_backend/entity"

// AlgorithmRecommendation 面向前端的算法建议条目，纯描述性元数据。
type AlgorithmRecommendation struct {
	Algorithm   string `json:"algorithm"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	BestFor     string `json:"best_for"`
}

var recommendationTable = map[entity.ProblemType][]AlgorithmRecommendation{
	entity.ProblemClassification: {
		{Algorithm: "logistic_regression", DisplayName: "Logistic Regression", Description: "线性分类基线，训练快、可解释", BestFor: "线性可分、需要可解释性的场景"},
		{Algorithm: "random_forest_classifier", DisplayName: "Random Forest", Description: "多棵决策树投票，抗过拟合", BestFor: "表格数据的通用首选"},
		{Algorithm: "gradient_boosting_classifier", DisplayName: "Gradient Boosting", Description: "逐步拟合残差的提升树", BestFor: "追求精度、可接受较长训练时间"},
		{Algorithm: "svm", DisplayName: "Support Vector Machine", Description: "最大间隔分类器，支持核技巧", BestFor: "中小规模、高维特征"},
		{Algorithm: "knn", DisplayName: "K-Nearest Neighbors", Description: "按近邻投票，无训练过程", BestFor: "小数据集的快速基线"},
		{Algorithm: "naive_bayes", DisplayName: "Naive Bayes", Description: "特征条件独立假设下的概率模型", BestFor: "文本类、高维稀疏特征"},
	},
	entity.ProblemRegression: {
		{Algorithm: "linear_regression", DisplayName: "Linear Regression", Description: "最小二乘线性拟合", BestFor: "线性关系、需要系数解释"},
		{Algorithm: "ridge", DisplayName: "Ridge Regression", Description: "带 L2 正则的线性回归", BestFor: "特征共线性明显的数据"},
		{Algorithm: "lasso", DisplayName: "Lasso Regression", Description: "带 L1 正则，自动做特征选择", BestFor: "特征多、希望稀疏解"},
		{Algorithm: "random_forest_regressor", DisplayName: "Random Forest Regressor", Description: "树集成回归，几乎不用调参", BestFor: "非线性表格数据"},
		{Algorithm: "gradient_boosting_regressor", DisplayName: "Gradient Boosting Regressor", Description: "提升树回归，精度上限高", BestFor: "追求精度的结构化数据"},
	},
	entity.ProblemClustering: {
		{Algorithm: "kmeans", DisplayName: "K-Means", Description: "按质心迭代划分的经典聚类", BestFor: "簇大致为球形、已知簇数"},
		{Algorithm: "dbscan", DisplayName: "DBSCAN", Description: "基于密度，能识别噪声点", BestFor: "簇形状不规则、含离群点"},
		{Algorithm: "hierarchical", DisplayName: "Hierarchical Clustering", Description: "自底向上逐层合并", BestFor: "需要层级结构或树状图"},
	},
	entity.ProblemDimensionalityReduction: {
		{Algorithm: "pca", DisplayName: "PCA", Description: "线性投影到方差最大的方向", BestFor: "降噪、可视化前置处理"},
		{Algorithm: "tsne", DisplayName: "t-SNE", Description: "保持局部邻域结构的非线性降维", BestFor: "高维数据的二维可视化"},
	},
}

// RecommendationsFor 返回该任务类型的算法建议。未知类型返回空列表。
func RecommendationsFor(problemType entity.ProblemType) []AlgorithmRecommendation {
	entries, ok := recommendationTable[problemType]
	if !ok {
		return []AlgorithmRecommendation{}
	}
	out := make([]AlgorithmRecommendation, len(entries))
	copy(out, entries)
	return out
}
