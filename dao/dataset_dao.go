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

const datasetCollection = "datasets"

// MongoDatasetDAO DatasetStore 的 MongoDB 实现。
type MongoDatasetDAO struct {
	DB *mongo.Database
}

func NewMongoDatasetDAO() *MongoDatasetDAO {
	return &MongoDatasetDAO{
		DB: db.Database,
	}
}

func (d *MongoDatasetDAO) collection() (*mongo.Collection, error) {
	if d.DB == nil {
		return nil, ErrStoreNotSelected
	}
	return d.DB.Collection(datasetCollection), nil
}

func (d *MongoDatasetDAO) Save(ctx context.Context, dataset *entity.Dataset) error {
	logger := daoLogger().With("dao", "MongoDatasetDAO", "method", "Save")
	if dataset == nil {
		return ErrNilEntity
	}

	coll, err := d.collection()
	if err != nil {
		return fmt.Errorf("save dataset failed: %w", err)
	}

	if dataset.ID == "" {
		dataset.ID = primitive.NewObjectID().Hex()
	}
	if dataset.CreatedAt.IsZero() {
		dataset.CreatedAt = time.Now()
	}

	if _, err := coll.InsertOne(ctx, dataset); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		logger.Error("insert dataset failed", "error", err)
		return fmt.Errorf("save dataset failed: %w", err)
	}
	logger.Info("save dataset success", "id", dataset.ID, "rows", dataset.RowCount)
	return nil
}

func (d *MongoDatasetDAO) FindByID(ctx context.Context, userID, id string) (*entity.Dataset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return nil, fmt.Errorf("find dataset by id failed: %w", err)
	}

	var dataset entity.Dataset
	err = coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&dataset)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find dataset by id failed: %w", err)
	}
	return &dataset, nil
}

func (d *MongoDatasetDAO) FindAll(ctx context.Context, userID string, params entity.QueryParams) ([]entity.Dataset, int64, error) {
	logger := daoLogger().With("dao", "MongoDatasetDAO", "method", "FindAll")

	coll, err := d.collection()
	if err != nil {
		return nil, 0, fmt.Errorf("find datasets failed: %w", err)
	}

	filter := bson.M{"user_id": userID}

	// 1. 基础模糊搜索
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": keyword, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": keyword, "$options": "i"}},
		}
	}

	// 2. 指标组合过滤
	if name := strings.TrimSpace(params.Name); name != "" {
		filter["name"] = name
	}

	// 3. 获取总数
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		logger.Error("count datasets failed", "error", err)
		return nil, 0, fmt.Errorf("count datasets failed: %w", err)
	}

	// 4. 执行分页查询 (默认创建时间降序，列表不带行数据)
	offset, limit := pagination(params)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"rows": 0})

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		logger.Error("query datasets failed", "error", err)
		return nil, 0, fmt.Errorf("query datasets failed: %w", err)
	}
	defer cursor.Close(ctx)

	var datasets []entity.Dataset
	if err := cursor.All(ctx, &datasets); err != nil {
		return nil, 0, fmt.Errorf("decode datasets failed: %w", err)
	}

	return datasets, total, nil
}

func (d *MongoDatasetDAO) DeleteByID(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return fmt.Errorf("delete dataset failed: %w", err)
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete dataset failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
