package service

import (
	"context"

	"automl_backend/dao"
	"automl_backend/entity"
)

type ExperimentService struct {
	experimentStore dao.ExperimentStore
}

func NewExperimentService() *ExperimentService {
	return &ExperimentService{
		experimentStore: dao.NewExperimentStore(),
	}
}

func (s *ExperimentService) GetExperiment(ctx context.Context, userID, id string) (*entity.Experiment, error) {
	return s.experimentStore.FindByID(ctx, userID, id)
}

func (s *ExperimentService) GetAllExperiments(ctx context.Context, userID string, params entity.QueryParams) (entity.PageResult, error) {
	experiments, total, err := s.experimentStore.FindAll(ctx, userID, params)
	if err != nil {
		return entity.PageResult{}, err
	}
	return entity.PageResult{
		Total: total,
		List:  experiments,
	}, nil
}

func (s *ExperimentService) DeleteExperiment(ctx context.Context, userID, id string) error {
	return s.experimentStore.DeleteByID(ctx, userID, id)
}
