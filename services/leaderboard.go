// services/leaderboard.go
package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/shared"
)

// LeaderboardService keeps XP rankings in redis sorted sets, one per period.
// The sets are a projection of the XP ledger: every grant is mirrored in, and
// losing an update only costs ranking freshness, never ledger correctness.
type LeaderboardService struct {
	appContext.DefaultService

	sqlSvc   SqlService
	redisSvc *RedisService
}

const LEADERBOARD_SVC = "leaderboard_svc"

// Periodic keys roll over naturally; stale ones expire on their own.
const leaderboardKeyTTL = 35 * 24 * time.Hour

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *LeaderboardService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(SqlService)
	svc.redisSvc, _ = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func allTimeKey() string {
	return "leaderboard:alltime"
}

func weeklyKey(now time.Time) string {
	year, week := now.UTC().ISOWeek()
	return fmt.Sprintf("leaderboard:weekly:%d-%02d", year, week)
}

func monthlyKey(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("leaderboard:monthly:%d-%02d", now.Year(), int(now.Month()))
}

func (svc *LeaderboardService) periodKey(period string, now time.Time) (string, error) {
	switch period {
	case "weekly":
		return weeklyKey(now), nil
	case "monthly":
		return monthlyKey(now), nil
	case "all_time":
		return allTimeKey(), nil
	}
	return "", fmt.Errorf("unknown leaderboard period: %s", period)
}

// RecordXP mirrors one grant into the all-time, weekly and monthly sets.
func (svc *LeaderboardService) RecordXP(ctx context.Context, userID string, amount int) error {
	client := svc.client()
	if client == nil {
		return nil
	}

	now := time.Now()
	wk := weeklyKey(now)
	mk := monthlyKey(now)

	pipe := client.Pipeline()
	pipe.ZIncrBy(ctx, allTimeKey(), float64(amount), userID)
	pipe.ZIncrBy(ctx, wk, float64(amount), userID)
	pipe.ZIncrBy(ctx, mk, float64(amount), userID)
	pipe.Expire(ctx, wk, leaderboardKeyTTL)
	pipe.Expire(ctx, mk, leaderboardKeyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetLeaderboard returns the top users for a period, with the requesting
// user's own rank resolved even when they sit outside the top list.
func (svc *LeaderboardService) GetLeaderboard(ctx context.Context, period string, limit int, currentUserID string) (*dto.LeaderboardResponse, error) {
	key, err := svc.periodKey(period, time.Now())
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Unknown leaderboard period")
	}

	client := svc.client()
	if client == nil {
		// No redis configured; fall back to the SQL all-time ranking
		return svc.sqlFallback(period, limit, currentUserID)
	}

	entries, err := client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	response := &dto.LeaderboardResponse{
		Period:   period,
		TopUsers: make([]dto.LeaderboardUserResponse, 0, len(entries)),
	}

	for i, entry := range entries {
		userID, _ := entry.Member.(string)
		row := svc.leaderboardRow(userID, int(entry.Score), i+1)
		response.TopUsers = append(response.TopUsers, row)

		if userID == currentUserID {
			response.CurrentUser = row
		}
	}

	if currentUserID != "" && response.CurrentUser.UserID == "" {
		if rank, err := client.ZRevRank(ctx, key, currentUserID).Result(); err == nil {
			score, _ := client.ZScore(ctx, key, currentUserID).Result()
			response.CurrentUser = svc.leaderboardRow(currentUserID, int(score), int(rank)+1)
		} else if err != redis.Nil {
			log.WithError(err).Warn("Failed to resolve leaderboard rank")
		}
	}

	return response, nil
}

func (svc *LeaderboardService) leaderboardRow(userID string, xp, rank int) dto.LeaderboardUserResponse {
	row := dto.LeaderboardUserResponse{
		UserID: userID,
		XP:     xp,
		Level:  shared.CalculateLevel(xp),
		Rank:   rank,
	}

	var user model.User
	if err := svc.sqlSvc.Db().Where("id = ?", userID).First(&user).Error; err == nil {
		row.Username = user.Username
	}

	return row
}

// sqlFallback serves the all-time board straight from game state when redis
// is absent. Periodic boards need the sorted sets, so they degrade to the
// same ranking.
func (svc *LeaderboardService) sqlFallback(period string, limit int, currentUserID string) (*dto.LeaderboardResponse, error) {
	var states []model.UserGameState
	err := svc.sqlSvc.Db().Order("xp DESC").Limit(limit).Find(&states).Error
	if err != nil {
		return nil, err
	}

	response := &dto.LeaderboardResponse{
		Period:   period,
		TopUsers: make([]dto.LeaderboardUserResponse, 0, len(states)),
	}
	for i, state := range states {
		row := svc.leaderboardRow(state.UserID, state.XP, i+1)
		response.TopUsers = append(response.TopUsers, row)
		if state.UserID == currentUserID {
			response.CurrentUser = row
		}
	}
	return response, nil
}

func (svc *LeaderboardService) client() *redis.Client {
	if svc.redisSvc == nil {
		return nil
	}
	return svc.redisSvc.GetClient()
}
