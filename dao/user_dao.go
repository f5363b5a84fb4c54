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
)

const userCollection = "users"

// MongoUserDAO UserStore 的 MongoDB 实现。
type MongoUserDAO struct {
	DB *mongo.Database
}

func NewMongoUserDAO() *MongoUserDAO {
	return &MongoUserDAO{
		DB: db.Database,
	}
}

func (d *MongoUserDAO) collection() (*mongo.Collection, error) {
	if d.DB == nil {
		return nil, ErrStoreNotSelected
	}
	return d.DB.Collection(userCollection), nil
}

func (d *MongoUserDAO) Save(ctx context.Context, user *entity.User) error {
	if user == nil {
		return ErrNilEntity
	}

	coll, err := d.collection()
	if err != nil {
		return fmt.Errorf("save user failed: %w", err)
	}

	// 用户名唯一
	count, err := coll.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return fmt.Errorf("save user failed: %w", err)
	}
	if count > 0 {
		return ErrAlreadyExists
	}

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if _, err := coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("save user failed: %w", err)
	}
	return nil
}

func (d *MongoUserDAO) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return nil, fmt.Errorf("find user by id failed: %w", err)
	}

	var user entity.User
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id failed: %w", err)
	}
	return &user, nil
}

func (d *MongoUserDAO) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidID
	}

	coll, err := d.collection()
	if err != nil {
		return nil, fmt.Errorf("find user by username failed: %w", err)
	}

	var user entity.User
	err = coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username failed: %w", err)
	}
	return &user, nil
}
