package service

import (
	"context"
	"fmt"
	"time"

	"learngenix_backend/internal/util"
	"learngenix_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SubmissionGuard 同一用户对同一题的并发提交只放行一个
type SubmissionGuard interface {
	Acquire(ctx context.Context, userID, exerciseID string) (release func(), err error)
}

// NewSubmissionGuard rdb 为 nil 时不做任何限制，由数据库唯一索引兜底
func NewSubmissionGuard(rdb *redis.Client, ttl time.Duration) SubmissionGuard {
	if rdb == nil {
		return noopGuard{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &redisGuard{rdb: rdb, ttl: ttl}
}

type noopGuard struct{}

func (noopGuard) Acquire(context.Context, string, string) (func(), error) {
	return func() {}, nil
}

// 仅删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func submitKey(userID, exerciseID string) string {
	return fmt.Sprintf("learngenix:submit:%s:%s", userID, exerciseID)
}

func (g *redisGuard) Acquire(ctx context.Context, userID, exerciseID string) (func(), error) {
	key := submitKey(userID, exerciseID)
	token := uuid.NewString()

	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		// Redis 暂不可用时放行，由数据库唯一索引兜底
		logger.Log.Warn("Submission lock unavailable, continuing without it",
			zap.String("key", key),
			zap.Error(err),
		)
		return func() {}, nil
	}
	if !ok {
		return nil, util.ErrSubmitInProgress
	}

	return func() {
		// 请求 ctx 可能已取消，释放使用独立的短超时
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.rdb, []string{key}, token).Err(); err != nil {
			logger.Log.Warn("Failed to release submission lock",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}, nil
}
