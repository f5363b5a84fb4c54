package entity

// ProblemType 任务类别，决定主指标与可用算法。
type ProblemType string

const (
	ProblemClassification          ProblemType = "classification"
	ProblemRegression              ProblemType = "regression"
	ProblemClustering              ProblemType = "clustering"
	ProblemDimensionalityReduction ProblemType = "dimensionality_reduction"
)

func (p ProblemType) Valid() bool {
	switch p {
	case ProblemClassification, ProblemRegression, ProblemClustering, ProblemDimensionalityReduction:
		return true
	}
	return false
}

// QueryParams 定义通用的查询参数
type QueryParams struct {
	Page     int    `form:"page"`      // 页码
	PageSize int    `form:"page_size"` // 每页数量
	Keyword  string `form:"keyword"`   // 搜索关键字 (模糊匹配名称等)
	Name     string `form:"name"`      // 过滤字段：名称

	// experiments 过滤字段
	ProblemType string `form:"problem_type"`
	Status      string `form:"status"`
	DatasetID   string `form:"dataset_id"`
}

// GetOffset 计算分页偏移量
func (p *QueryParams) GetOffset() int {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	return (p.Page - 1) * p.PageSize
}

// GetLimit 获取限制条数
func (p *QueryParams) GetLimit() int {
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	return p.PageSize
}

// PageResult 通用的分页返回结构
type PageResult struct {
	Total int64       `json:"total"` // 总条数
	List  interface{} `json:"list"`  // 数据列表
}
