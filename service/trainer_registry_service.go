package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"automl_backend/config"

	"github.com/redis/go-redis/v9"
)

const trainersHashKey = "ml-trainers"

var ErrRedisNotInitialized = errors.New("redis client is not initialized")
var ErrTrainerKeyRequired = errors.New("trainer key is required")
var ErrTrainerNotFound = errors.New("trainer not found")

// Trainer Redis 中登记的一台训练服务实例。
type Trainer struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type trainerValue struct {
	URL string `json:"url"`
}

// ListTrainers 列出 Redis 中登记的全部训练服务实例，按 key 排序。
func ListTrainers(ctx context.Context) ([]Trainer, error) {
	if config.RedisClient == nil {
		return nil, ErrRedisNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rawMap, err := config.RedisClient.HGetAll(ctx, trainersHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s failed: %w", trainersHashKey, err)
	}

	keys := make([]string, 0, len(rawMap))
	for key := range rawMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Trainer, 0, len(keys))
	for _, key := range keys {
		raw := strings.TrimSpace(rawMap[key])
		if raw == "" {
			continue
		}

		var value trainerValue
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("parse trainer failed (key=%s): %w", key, err)
		}

		result = append(result, Trainer{
			Key: key,
			URL: value.URL,
		})
	}

	return result, nil
}

// GetTrainerByKey 按 key 查询单台训练服务实例。
func GetTrainerByKey(ctx context.Context, key string) (Trainer, error) {
	if config.RedisClient == nil {
		return Trainer{}, ErrRedisNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return Trainer{}, ErrTrainerKeyRequired
	}

	raw, err := config.RedisClient.HGet(ctx, trainersHashKey, trimmedKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Trainer{}, ErrTrainerNotFound
		}
		return Trainer{}, fmt.Errorf("hget %s failed (key=%s): %w", trainersHashKey, trimmedKey, err)
	}

	payload := strings.TrimSpace(raw)
	if payload == "" {
		return Trainer{}, ErrTrainerNotFound
	}

	var value trainerValue
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return Trainer{}, fmt.Errorf("parse trainer failed (key=%s): %w", trimmedKey, err)
	}

	return Trainer{
		Key: trimmedKey,
		URL: value.URL,
	}, nil
}

// ResolveTrainerURL 解析本次训练用的服务地址：指定了 key 就查注册表，
// 否则用配置里的 base_url。
func ResolveTrainerURL(ctx context.Context, trainerKey string) (string, error) {
	if key := strings.TrimSpace(trainerKey); key != "" {
		trainer, err := GetTrainerByKey(ctx, key)
		if err != nil {
			return "", err
		}
		return trainer.URL, nil
	}

	if config.AppConfig != nil {
		if url := strings.TrimSpace(config.AppConfig.ML.BaseURL); url != "" {
			return url, nil
		}
	}
	return "", ErrMLBaseURLRequired
}
