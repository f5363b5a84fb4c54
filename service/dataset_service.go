package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"automl_backend/dao"
	"automl_backend/entity"
)

// Mongo 单文档上限 16MiB，行数据留足余量
const maxDatasetDocumentBytes = 12 << 20

var (
	ErrDatasetNameRequired    = errors.New("dataset name is required")
	ErrDatasetColumnsRequired = errors.New("dataset columns are required")
	ErrInvalidTargetColumn    = errors.New("target column is not one of the dataset columns")
	ErrEmptyCSV               = errors.New("csv file has no data rows")
	ErrInvalidCSV             = errors.New("csv file is malformed")
	ErrDatasetTooLarge        = errors.New("dataset exceeds the single-document size limit")
)

type DatasetService struct {
	datasetStore dao.DatasetStore
}

func NewDatasetService() *DatasetService {
	return &DatasetService{
		datasetStore: dao.NewDatasetStore(),
	}
}

// CreateDataset 保存一份以 JSON 形式提交的数据集。
// 行数据超出单文档上限时直接拒绝（CSV 导入是截断，这里是整体提交，没有"半份"可言）。
func (s *DatasetService) CreateDataset(ctx context.Context, userID string, dataset *entity.Dataset) error {
	if dataset == nil {
		return dao.ErrNilEntity
	}
	if strings.TrimSpace(dataset.Name) == "" {
		return ErrDatasetNameRequired
	}
	if len(dataset.Columns) == 0 {
		return ErrDatasetColumnsRequired
	}

	if strings.TrimSpace(dataset.TargetColumn) == "" {
		dataset.TargetColumn = dataset.Columns[len(dataset.Columns)-1]
	}
	if !containsColumn(dataset.Columns, dataset.TargetColumn) {
		return ErrInvalidTargetColumn
	}

	size := int64(0)
	for _, row := range dataset.Rows {
		size += int64(rowSizeBytes(row))
	}
	if size > maxDatasetDocumentBytes {
		return ErrDatasetTooLarge
	}

	dataset.UserID = userID
	dataset.RowCount = len(dataset.Rows)
	dataset.TotalRows = len(dataset.Rows)
	dataset.ColumnCount = len(dataset.Columns)
	dataset.SizeBytes = size
	dataset.Truncated = false
	dataset.CreatedAt = time.Now()

	return s.datasetStore.Save(ctx, dataset)
}

// IngestCSV 单遍解析 CSV 并入库。超出文档大小上限后停止收行，
// 剩余行只计数，数据集标记 truncated。
func (s *DatasetService) IngestCSV(ctx context.Context, userID, name, description, targetColumn, sourceFile string, r io.Reader) (*entity.Dataset, error) {
	logger := serviceLogger().With("service", "DatasetService", "method", "IngestCSV")
	if strings.TrimSpace(name) == "" {
		return nil, ErrDatasetNameRequired
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}
	if len(columns) == 0 {
		return nil, ErrDatasetColumnsRequired
	}

	target := strings.TrimSpace(targetColumn)
	if target == "" {
		target = columns[len(columns)-1]
	}
	if !containsColumn(columns, target) {
		return nil, ErrInvalidTargetColumn
	}

	var rows []map[string]interface{}
	var size int64
	totalRows := 0
	truncated := false

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		totalRows++
		if truncated {
			continue
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}

		rowBytes := int64(rowSizeBytes(row))
		if size+rowBytes > maxDatasetDocumentBytes {
			truncated = true
			continue
		}
		rows = append(rows, row)
		size += rowBytes
	}

	if len(rows) == 0 {
		return nil, ErrEmptyCSV
	}

	var desc *string
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		desc = &trimmed
	}

	dataset := &entity.Dataset{
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		Description:  desc,
		Columns:      columns,
		Rows:         rows,
		TargetColumn: target,
		RowCount:     len(rows),
		TotalRows:    totalRows,
		ColumnCount:  len(columns),
		SizeBytes:    size,
		Truncated:    truncated,
		SourceFile:   sourceFile,
		CreatedAt:    time.Now(),
	}

	if err := s.datasetStore.Save(ctx, dataset); err != nil {
		return nil, err
	}

	logger.Info("csv dataset ingested",
		"id", dataset.ID,
		"rows_stored", dataset.RowCount,
		"rows_total", dataset.TotalRows,
		"truncated", dataset.Truncated,
	)
	return dataset, nil
}

func (s *DatasetService) GetDataset(ctx context.Context, userID, id string) (*entity.Dataset, error) {
	return s.datasetStore.FindByID(ctx, userID, id)
}

func (s *DatasetService) GetAllDatasets(ctx context.Context, userID string, params entity.QueryParams) (entity.PageResult, error) {
	datasets, total, err := s.datasetStore.FindAll(ctx, userID, params)
	if err != nil {
		return entity.PageResult{}, err
	}
	return entity.PageResult{
		Total: total,
		List:  datasets,
	}, nil
}

func (s *DatasetService) DeleteDataset(ctx context.Context, userID, id string) error {
	return s.datasetStore.DeleteByID(ctx, userID, id)
}

func containsColumn(columns []string, name string) bool {
	for _, col := range columns {
		if col == name {
			return true
		}
	}
	return false
}

// rowSizeBytes 以 JSON 编码长度近似一行的存储开销。
func rowSizeBytes(row map[string]interface{}) int {
	data, err := json.Marshal(row)
	if err != nil {
		return 0
	}
	return len(data) + 1
}
