package entity

import "time"

// Dataset 表格数据集。行以文档形式整体存储，训练时按列取值。
type Dataset struct {
	ID           string                   `bson:"_id,omitempty" json:"id"`
	UserID       string                   `bson:"user_id" json:"user_id"`
	Name         string                   `bson:"name" json:"name"`
	Description  *string                  `bson:"description,omitempty" json:"description,omitempty"`
	Columns      []string                 `bson:"columns" json:"columns"`
	Rows         []map[string]interface{} `bson:"rows" json:"rows,omitempty"`
	TargetColumn string                   `bson:"target_column" json:"target_column"`
	RowCount     int                      `bson:"row_count" json:"row_count"`
	ColumnCount  int                      `bson:"column_count" json:"column_count"`
	SizeBytes    int64                    `bson:"size_bytes" json:"size_bytes"`
	// Truncated 表示导入时因文档大小上限丢弃了尾部行
	Truncated    bool      `bson:"truncated" json:"truncated"`
	TotalRows    int       `bson:"total_rows" json:"total_rows"`
	SourceFile   string    `bson:"source_file,omitempty" json:"source_file,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
