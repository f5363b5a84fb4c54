package dao

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"automl_backend/config"
	"automl_backend/entity"
	"automl_backend/infrastructure/db"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidID        = errors.New("传入的 ID 不合法")
	ErrNilEntity        = errors.New("实体对象 为 nil")
	ErrAlreadyExists    = errors.New("记录已经存在")
	ErrStoreNotSelected = errors.New("storage backend is not initialized")
)

const (
	defaultPageSize = 10
	maxPageSize     = 1000
)

// Backend 存储后端类型，启动时通过配置选定一次。
type Backend string

const (
	BackendMongo  Backend = "mongo"
	BackendMemory Backend = "memory"
)

// DatasetStore 数据集存取接口。持久化 (mongo) 与内存两套实现。
// 所有读写都按 userID 归属过滤，不属于调用者的记录等同于不存在。
type DatasetStore interface {
	Save(ctx context.Context, dataset *entity.Dataset) error
	FindByID(ctx context.Context, userID, id string) (*entity.Dataset, error)
	FindAll(ctx context.Context, userID string, params entity.QueryParams) ([]entity.Dataset, int64, error)
	DeleteByID(ctx context.Context, userID, id string) error
}

// ExperimentStore 实验聚合存取接口。
type ExperimentStore interface {
	Save(ctx context.Context, experiment *entity.Experiment) error
	Update(ctx context.Context, experiment *entity.Experiment) error
	UpdateStatus(ctx context.Context, userID, id, status string) error
	FindByID(ctx context.Context, userID, id string) (*entity.Experiment, error)
	FindAll(ctx context.Context, userID string, params entity.QueryParams) ([]entity.Experiment, int64, error)
	DeleteByID(ctx context.Context, userID, id string) error
}

// UserStore 用户存取接口。
type UserStore interface {
	Save(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

var (
	activeBackend Backend

	memDatasets    *MemoryDatasetStore
	memExperiments *MemoryExperimentStore
	memUsers       *MemoryUserStore
)

// Init 按配置选定存储后端。mongo 后端会建立连接；memory 后端构造共享内存表。
// 进程生命周期内只调用一次，不做运行期探活切换。
func Init(cfg *config.Config) error {
	logger := daoLogger().With("func", "Init")
	if cfg == nil {
		return errors.New("config is nil")
	}

	backend := Backend(strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)))
	if backend == "" {
		backend = BackendMongo
	}

	switch backend {
	case BackendMongo:
		if err := db.InitMongo(); err != nil {
			return fmt.Errorf("init mongo storage failed: %w", err)
		}
	case BackendMemory:
		memDatasets = NewMemoryDatasetStore()
		memExperiments = NewMemoryExperimentStore()
		memUsers = NewMemoryUserStore()
	default:
		return fmt.Errorf("unsupported storage backend: %s", backend)
	}

	activeBackend = backend
	logger.Info("storage backend selected", "backend", string(backend))
	return nil
}

// ActiveBackend 返回当前选定的存储后端。
func ActiveBackend() Backend {
	return activeBackend
}

// NewDatasetStore 返回当前后端的数据集存储实现。
func NewDatasetStore() DatasetStore {
	if activeBackend == BackendMemory {
		return memDatasets
	}
	return NewMongoDatasetDAO()
}

// NewExperimentStore 返回当前后端的实验存储实现。
func NewExperimentStore() ExperimentStore {
	if activeBackend == BackendMemory {
		return memExperiments
	}
	return NewMongoExperimentDAO()
}

// NewUserStore 返回当前后端的用户存储实现。
func NewUserStore() UserStore {
	if activeBackend == BackendMemory {
		return memUsers
	}
	return NewMongoUserDAO()
}

func daoLogger() *slog.Logger {
	logger := config.EnsureLoggerInitialized()
	if logger == nil {
		return slog.Default()
	}
	return logger.With("layer", "dao")
}

// normalizeQueryParams 规范查询参数
func normalizeQueryParams(params entity.QueryParams) entity.QueryParams {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	return params
}

// 返回分页参数
func pagination(params entity.QueryParams) (offset, limit int) {
	p := normalizeQueryParams(params)
	return (p.Page - 1) * p.PageSize, p.PageSize
}
