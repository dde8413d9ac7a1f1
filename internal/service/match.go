package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fcticket/internal/model"
	"fcticket/internal/repository"
	"fcticket/pkg/logger"
)

// MatchService 比赛服务
type MatchService struct {
	matchRepo   repository.MatchRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

// NewMatchService 创建比赛服务实例
func NewMatchService(matchRepo repository.MatchRepository, redisClient *redis.Client, logger *logger.Logger) *MatchService {
	return &MatchService{
		matchRepo:   matchRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

// GetCurrent 获取当前比赛，不存在时返回nil
func (s *MatchService) GetCurrent(ctx context.Context) (*model.Match, error) {
	// 尝试从缓存获取
	cacheKey := "match:current"
	cachedData, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var match model.Match
		if err := json.Unmarshal(cachedData, &match); err == nil {
			return &match, nil
		}
	}

	// 缓存未命中，从数据库获取
	match, err := s.matchRepo.GetCurrent(ctx)
	if err != nil {
		s.logger.Error("获取当前比赛失败", "error", err)
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	// 将结果存入缓存
	if data, err := json.Marshal(match); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
	}

	return match, nil
}

// List 获取全部比赛列表
func (s *MatchService) List(ctx context.Context) ([]*model.Match, error) {
	// 尝试从缓存获取
	cacheKey := "match:list"
	cachedData, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var matches []*model.Match
		if err := json.Unmarshal(cachedData, &matches); err == nil {
			return matches, nil
		}
	}

	// 缓存未命中，从数据库获取
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		s.logger.Error("获取比赛列表失败", "error", err)
		return nil, err
	}

	// 将结果存入缓存
	if data, err := json.Marshal(matches); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
	}

	return matches, nil
}

// GetByID 根据ID获取比赛详情，不存在时返回nil
func (s *MatchService) GetByID(ctx context.Context, id int64) (*model.Match, error) {
	// 尝试从缓存获取
	cacheKey := fmt.Sprintf("match:detail:%d", id)
	cachedData, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var match model.Match
		if err := json.Unmarshal(cachedData, &match); err == nil {
			return &match, nil
		}
	}

	// 缓存未命中，从数据库获取
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("获取比赛详情失败", "id", id, "error", err)
		return nil, err
	}
	if match == nil {
		return nil, nil
	}

	// 将结果存入缓存
	if data, err := json.Marshal(match); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
	}

	return match, nil
}

// InvalidateCache 使比赛相关缓存失效
func (s *MatchService) InvalidateCache(ctx context.Context) error {
	iter := s.redisClient.Scan(ctx, 0, "match:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
