package dao

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"automl_backend/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 内存实现：mutex 保护的表。与 mongo 实现行为对齐（归属过滤、
// 分页、列表不带行数据），供无数据库环境与单元测试使用。

// MemoryDatasetStore DatasetStore 的内存实现。
type MemoryDatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*entity.Dataset
}

func NewMemoryDatasetStore() *MemoryDatasetStore {
	return &MemoryDatasetStore{
		datasets: make(map[string]*entity.Dataset),
	}
}

func (s *MemoryDatasetStore) Save(_ context.Context, dataset *entity.Dataset) error {
	if dataset == nil {
		return ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dataset.ID == "" {
		dataset.ID = primitive.NewObjectID().Hex()
	}
	if dataset.CreatedAt.IsZero() {
		dataset.CreatedAt = time.Now()
	}

	copied := *dataset
	s.datasets[dataset.ID] = &copied
	return nil
}

func (s *MemoryDatasetStore) FindByID(_ context.Context, userID, id string) (*entity.Dataset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[id]
	if !ok || dataset.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *dataset
	return &copied, nil
}

func (s *MemoryDatasetStore) FindAll(_ context.Context, userID string, params entity.QueryParams) ([]entity.Dataset, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Dataset
	for _, dataset := range s.datasets {
		if dataset.UserID != userID {
			continue
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			lower := strings.ToLower(keyword)
			desc := ""
			if dataset.Description != nil {
				desc = *dataset.Description
			}
			if !strings.Contains(strings.ToLower(dataset.Name), lower) &&
				!strings.Contains(strings.ToLower(desc), lower) {
				continue
			}
		}
		if name := strings.TrimSpace(params.Name); name != "" && dataset.Name != name {
			continue
		}
		matched = append(matched, dataset)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset, limit := pagination(params)
	page := paginateSlice(matched, offset, limit)

	result := make([]entity.Dataset, 0, len(page))
	for _, dataset := range page {
		copied := *dataset
		copied.Rows = nil // 列表不带行数据，与 mongo projection 对齐
		result = append(result, copied)
	}
	return result, total, nil
}

func (s *MemoryDatasetStore) DeleteByID(_ context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok := s.datasets[id]
	if !ok || dataset.UserID != userID {
		return ErrNotFound
	}
	delete(s.datasets, id)
	return nil
}

// MemoryExperimentStore ExperimentStore 的内存实现。
type MemoryExperimentStore struct {
	mu          sync.RWMutex
	experiments map[string]*entity.Experiment
}

func NewMemoryExperimentStore() *MemoryExperimentStore {
	return &MemoryExperimentStore{
		experiments: make(map[string]*entity.Experiment),
	}
}

func (s *MemoryExperimentStore) Save(_ context.Context, experiment *entity.Experiment) error {
	if experiment == nil {
		return ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if experiment.ID == "" {
		experiment.ID = primitive.NewObjectID().Hex()
	}
	if experiment.CreatedAt.IsZero() {
		experiment.CreatedAt = time.Now()
	}

	copied := *experiment
	s.experiments[experiment.ID] = &copied
	return nil
}

func (s *MemoryExperimentStore) Update(_ context.Context, experiment *entity.Experiment) error {
	if experiment == nil {
		return ErrNilEntity
	}
	if strings.TrimSpace(experiment.ID) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.experiments[experiment.ID]
	if !ok || existing.UserID != experiment.UserID {
		return ErrNotFound
	}
	copied := *experiment
	s.experiments[experiment.ID] = &copied
	return nil
}

func (s *MemoryExperimentStore) UpdateStatus(_ context.Context, userID, id, status string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	experiment, ok := s.experiments[id]
	if !ok || experiment.UserID != userID {
		return ErrNotFound
	}
	experiment.Status = status
	return nil
}

func (s *MemoryExperimentStore) FindByID(_ context.Context, userID, id string) (*entity.Experiment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	experiment, ok := s.experiments[id]
	if !ok || experiment.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *experiment
	return &copied, nil
}

func (s *MemoryExperimentStore) FindAll(_ context.Context, userID string, params entity.QueryParams) ([]entity.Experiment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Experiment
	for _, experiment := range s.experiments {
		if experiment.UserID != userID {
			continue
		}
		if pt := strings.TrimSpace(params.ProblemType); pt != "" && string(experiment.ProblemType) != pt {
			continue
		}
		if status := strings.TrimSpace(params.Status); status != "" && experiment.Status != status {
			continue
		}
		if datasetID := strings.TrimSpace(params.DatasetID); datasetID != "" && experiment.DatasetID != datasetID {
			continue
		}
		matched = append(matched, experiment)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset, limit := pagination(params)
	page := paginateSlice(matched, offset, limit)

	result := make([]entity.Experiment, 0, len(page))
	for _, experiment := range page {
		result = append(result, *experiment)
	}
	return result, total, nil
}

func (s *MemoryExperimentStore) DeleteByID(_ context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	experiment, ok := s.experiments[id]
	if !ok || experiment.UserID != userID {
		return ErrNotFound
	}
	delete(s.experiments, id)
	return nil
}

// MemoryUserStore UserStore 的内存实现。
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*entity.User),
	}
}

func (s *MemoryUserStore) Save(_ context.Context, user *entity.User) error {
	if user == nil {
		return ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return ErrAlreadyExists
		}
	}

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func paginateSlice[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
