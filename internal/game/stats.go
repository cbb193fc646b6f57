package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/repository"
	"gorm.io/gorm"
)

const (
	globalStatsKey = "global"
	statsWeek      = 7 * 24 * time.Hour
)

// FightStats 一场已结束的战斗
type FightStats struct {
	BattleID   uint      `json:"battle_id"`
	PlayerName string    `json:"player_name"`
	Epicness   int64     `json:"epicness"`
	Tronium    int64     `json:"tronium"`
	Seconds    int64     `json:"seconds"`
	Spins      int       `json:"spins"`
	FinishedAt time.Time `json:"finished_at"`
}

// PlayerStats 玩家个人统计
type PlayerStats struct {
	BestFightByEpicness *FightStats `json:"best_fight_by_epicness"`
	BestFightByTronium  *FightStats `json:"best_fight_by_tronium"`
	VillainsDefeated    int         `json:"villains_defeated"`
	TotalSpins          int64       `json:"total_spins"`
	TotalPayout         int64       `json:"total_payout"`
	TotalCost           int64       `json:"total_cost"`
}

// GlobalStats 全服统计
type GlobalStats struct {
	AllTimeByEpicness       []FightStats `json:"all_time_by_epicness"`
	AllTimeByTronium        []FightStats `json:"all_time_by_tronium"`
	BestFightWeekByEpicness *FightStats  `json:"best_fight_week_by_epicness"`
	BestFightWeekByTronium  *FightStats  `json:"best_fight_week_by_tronium"`
	VillainsDefeated        int64        `json:"villains_defeated"`
	Players                 int64        `json:"players"`
	ObservedRTP             float64      `json:"observed_rtp"`
	GeneratedAt             time.Time    `json:"generated_at"`
}

// statsEntry 缓存内容，只会是 *GlobalStats 或 *PlayerStats
type statsEntry struct {
	global *GlobalStats
	player *PlayerStats
}

// StatsService 排行和统计，结果缓存在带过期时间的LRU中
type StatsService struct {
	repos *repository.Manager
	cache *expirable.LRU[string, statsEntry]
	topN  int
	now   func() time.Time
}

// NewStatsService 创建统计服务
func NewStatsService(db *gorm.DB, cacheSize int, ttl time.Duration, topN int) *StatsService {
	if cacheSize <= 0 {
		cacheSize = 16
	}
	if topN <= 0 {
		topN = 10
	}
	return &StatsService{
		repos: repository.NewManager(db),
		cache: expirable.NewLRU[string, statsEntry](cacheSize, nil, ttl),
		topN:  topN,
		now:   time.Now,
	}
}

// Invalidate 清空缓存，有战斗结束时调用
func (s *StatsService) Invalidate() {
	s.cache.Purge()
}

// Global 全服统计
func (s *StatsService) Global(ctx context.Context) (*GlobalStats, error) {
	if entry, ok := s.cache.Get(globalStatsKey); ok && entry.global != nil {
		return entry.global, nil
	}

	battles := s.repos.Battle()
	stats := &GlobalStats{GeneratedAt: s.now()}

	var err error
	if stats.AllTimeByEpicness, err = s.top(ctx, battles, repository.OrderByEpicness, nil, s.topN); err != nil {
		return nil, err
	}
	if stats.AllTimeByTronium, err = s.top(ctx, battles, repository.OrderByTronium, nil, s.topN); err != nil {
		return nil, err
	}

	weekAgo := stats.GeneratedAt.Add(-statsWeek)
	if week, err := s.top(ctx, battles, repository.OrderByEpicness, &weekAgo, 1); err != nil {
		return nil, err
	} else if len(week) > 0 {
		stats.BestFightWeekByEpicness = &week[0]
	}
	if week, err := s.top(ctx, battles, repository.OrderByTronium, &weekAgo, 1); err != nil {
		return nil, err
	} else if len(week) > 0 {
		stats.BestFightWeekByTronium = &week[0]
	}

	if stats.VillainsDefeated, err = battles.CountFinished(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	if stats.Players, err = s.repos.Player().Count(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	totals, err := s.repos.SpinRecord().Totals(ctx, 0)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	if totals.Cost > 0 {
		stats.ObservedRTP = float64(totals.Payout) / float64(totals.Cost)
	}

	s.cache.Add(globalStatsKey, statsEntry{global: stats})
	return stats, nil
}

// Player 玩家个人统计
func (s *StatsService) Player(ctx context.Context, playerID uint) (*PlayerStats, error) {
	key := fmt.Sprintf("player:%d", playerID)
	if entry, ok := s.cache.Get(key); ok && entry.player != nil {
		return entry.player, nil
	}

	player, err := s.repos.Player().FindByID(ctx, playerID)
	if err != nil {
		return nil, lookupError(err)
	}

	stats := &PlayerStats{
		VillainsDefeated: player.VillainsDefeated,
		TotalSpins:       player.TotalSpins,
	}
	if stats.BestFightByEpicness, err = s.best(ctx, playerID, repository.OrderByEpicness); err != nil {
		return nil, err
	}
	if stats.BestFightByTronium, err = s.best(ctx, playerID, repository.OrderByTronium); err != nil {
		return nil, err
	}

	totals, err := s.repos.SpinRecord().Totals(ctx, playerID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	stats.TotalPayout = totals.Payout
	stats.TotalCost = totals.Cost

	s.cache.Add(key, statsEntry{player: stats})
	return stats, nil
}

func (s *StatsService) top(ctx context.Context, battles repository.BattleRepository, order repository.FightOrder, since *time.Time, limit int) ([]FightStats, error) {
	rows, err := battles.Top(ctx, order, since, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	out := make([]FightStats, 0, len(rows))
	for i := range rows {
		out = append(out, toFightStats(&rows[i]))
	}
	return out, nil
}

func (s *StatsService) best(ctx context.Context, playerID uint, order repository.FightOrder) (*FightStats, error) {
	row, err := s.repos.Battle().BestOfPlayer(ctx, playerID, order)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	fs := toFightStats(row)
	return &fs, nil
}

func toFightStats(row *repository.FightRow) FightStats {
	fs := FightStats{
		BattleID:   row.BattleID,
		PlayerName: row.PlayerName,
		Epicness:   row.Epicness,
		Tronium:    row.Tronium,
		Seconds:    row.Seconds(),
		Spins:      row.Spins,
	}
	if row.FinishedAt != nil {
		fs.FinishedAt = *row.FinishedAt
	}
	return fs
}
