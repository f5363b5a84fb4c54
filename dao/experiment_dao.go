package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"automl_backend/entity"
	"automl_backend/infrastructure/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const experimentCollection = "experiments"

// MongoExperimentDAO ExperimentStore 的 MongoDB 实现。
type MongoExperimentDAO struct {
	DB *mongo.Database
}

func NewMongoExperimentDAO() *MongoExperimentDAO {
	logger := daoLogger().With("dao", "MongoExperimentDAO", "method", "NewMongoExperimentDAO")
	logger.Debug("init experiment dao")
	return &MongoExperimentDAO{
		DB: db.Database,
	}
}

func (d *MongoExperimentDAO) collection() (*mongo.Collection, error) {
	if d.DB == nil {
		return nil, ErrStoreNotSelected
	}
	return d.DB.Collection(experimentCollection), nil
}

// Save 保存一条实验记录。
func (d *MongoExperimentDAO) Save(ctx context.Context, experiment *entity.Experiment) error {
	logger := daoLogger().With("dao", "MongoExperimentDAO", "method", "Save")
	if experiment == nil {
		logger.Warn("save experiment skipped: experiment is nil")
		return ErrNilEntity
	}

	coll, err := d.collection()
	if err != nil {
		return fmt.Errorf("save experiment failed: %w", err)
	}

	if experiment.ID == "" {
		experiment.ID = primitive.NewObjectID().Hex()
	}
	if experiment.CreatedAt.IsZero() {
		experiment.CreatedAt = time.Now()
	}

	if _, err := coll.InsertOne(ctx, experiment); err != nil {
		logger.Error("save experiment failed: insert", "error", err)
		return fmt.Errorf("save experiment failed: %w", err)
	}
	logger.Info("save experiment success", "id", experiment.ID, "status", experiment.Status)
	return nil
}

// Update 整体覆盖一条实验记录（训练完成后写入结果与最优模型）。
func (d *MongoExperimentDAO) Update(ctx context.Context, experiment *entity.Experiment) error {
	logger := daoLogger().With("dao", "MongoExperimentDAO", "method", "Update")
	if experiment == nil {
		return ErrNilEntity
	}
	if strings.TrimSpace(experiment.ID) == "" {
		return ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return fmt.Errorf("update experiment failed: %w", err)
	}

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": experiment.ID, "user_id": experiment.UserID}, experiment)
	if err != nil {
		logger.Error("update experiment failed: replace", "id", experiment.ID, "error", err)
		return fmt.Errorf("update experiment failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	logger.Info("update experiment success", "id", experiment.ID, "status", experiment.Status)
	return nil
}

// UpdateStatus 只推进状态字段。
func (d *MongoExperimentDAO) UpdateStatus(ctx context.Context, userID, id, status string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return fmt.Errorf("update experiment status failed: %w", err)
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("update experiment status failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID 根据主键查询单条实验记录。
func (d *MongoExperimentDAO) FindByID(ctx context.Context, userID, id string) (*entity.Experiment, error) {
	logger := daoLogger().With("dao", "MongoExperimentDAO", "method", "FindByID")
	if strings.TrimSpace(id) == "" {
		logger.Warn("find experiment by id skipped: invalid id", "id", id)
		return nil, ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return nil, fmt.Errorf("find experiment by id failed: %w", err)
	}

	var experiment entity.Experiment
	err = coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&experiment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("find experiment by id failed: query", "id", id, "error", err)
		return nil, fmt.Errorf("find experiment by id failed: %w", err)
	}
	return &experiment, nil
}

// FindAll 按查询参数分页获取实验列表与总数。
func (d *MongoExperimentDAO) FindAll(ctx context.Context, userID string, params entity.QueryParams) ([]entity.Experiment, int64, error) {
	logger := daoLogger().With("dao", "MongoExperimentDAO", "method", "FindAll")

	coll, err := d.collection()
	if err != nil {
		return nil, 0, fmt.Errorf("find experiments failed: %w", err)
	}

	filter := bson.M{"user_id": userID}

	// 1. 指标组合过滤
	if pt := strings.TrimSpace(params.ProblemType); pt != "" {
		filter["problem_type"] = pt
	}
	if status := strings.TrimSpace(params.Status); status != "" {
		filter["status"] = status
	}
	if datasetID := strings.TrimSpace(params.DatasetID); datasetID != "" {
		filter["dataset_id"] = datasetID
	}

	// 2. 获取总数
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		logger.Error("count experiments failed", "error", err)
		return nil, 0, fmt.Errorf("count experiments failed: %w", err)
	}

	// 3. 执行分页查询 (默认创建时间降序)
	offset, limit := pagination(params)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		logger.Error("query experiments failed", "error", err)
		return nil, 0, fmt.Errorf("query experiments failed: %w", err)
	}
	defer cursor.Close(ctx)

	var experiments []entity.Experiment
	if err := cursor.All(ctx, &experiments); err != nil {
		return nil, 0, fmt.Errorf("decode experiments failed: %w", err)
	}

	logger.Info("find experiments success", "total", total, "returned", len(experiments))
	return experiments, total, nil
}

func (d *MongoExperimentDAO) DeleteByID(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return fmt.Errorf("delete experiment failed: %w", err)
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete experiment failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
