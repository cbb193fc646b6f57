package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wfunc/battle-slot/internal/models"
	"gorm.io/gorm"
)

// FightOrder 排行依据
type FightOrder string

const (
	OrderByEpicness FightOrder = "epicness"
	OrderByTronium  FightOrder = "tronium"
)

// Valid 是否为支持的排行依据
func (o FightOrder) Valid() bool {
	return o == OrderByEpicness || o == OrderByTronium
}

// FightRow 排行榜中的一场战斗
type FightRow struct {
	BattleID   uint       `json:"battle_id"`
	PlayerID   uint       `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Epicness   int64      `json:"epicness"`
	Tronium    int64      `json:"tronium"`
	Spins      int        `json:"spins"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// Seconds 战斗用时
func (f *FightRow) Seconds() int64 {
	if f.FinishedAt == nil || f.FinishedAt.Before(f.StartedAt) {
		return 0
	}
	return int64(f.FinishedAt.Sub(f.StartedAt) / time.Second)
}

// BattleRepository 战斗仓储接口
type BattleRepository interface {
	BaseRepository
	Create(ctx context.Context, battle *models.Battle) error
	Update(ctx context.Context, battle *models.Battle) error
	FindByID(ctx context.Context, id uint) (*models.Battle, error)
	// FindCurrent 玩家当前未结束的战斗
	FindCurrent(ctx context.Context, playerID uint) (*models.Battle, error)
	ListByPlayer(ctx context.Context, playerID uint, pagination *Pagination) ([]*models.Battle, error)
	// Top 已结束战斗排行，since 为空表示不限时间
	Top(ctx context.Context, order FightOrder, since *time.Time, limit int) ([]FightRow, error)
	// BestOfPlayer 玩家最好的一场战斗
	BestOfPlayer(ctx context.Context, playerID uint, order FightOrder) (*FightRow, error)
	CountFinished(ctx context.Context) (int64, error)
}

// battleRepo 战斗仓储实现
type battleRepo struct {
	*BaseRepo
}

// NewBattleRepository 创建战斗仓储
func NewBattleRepository(db *gorm.DB) BattleRepository {
	return &battleRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建战斗
func (r *battleRepo) Create(ctx context.Context, battle *models.Battle) error {
	return r.db.WithContext(ctx).Create(battle).Error
}

// Update 保存战斗
func (r *battleRepo) Update(ctx context.Context, battle *models.Battle) error {
	return r.db.WithContext(ctx).Save(battle).Error
}

// FindByID 根据ID查找战斗
func (r *battleRepo) FindByID(ctx context.Context, id uint) (*models.Battle, error) {
	var battle models.Battle
	if err := r.db.WithContext(ctx).First(&battle, id).Error; err != nil {
		return nil, notFound(err, "战斗")
	}
	return &battle, nil
}

// FindCurrent 玩家当前未结束的战斗
func (r *battleRepo) FindCurrent(ctx context.Context, playerID uint) (*models.Battle, error) {
	var battle models.Battle
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND status IN ?", playerID,
			[]models.BattleStatus{models.BattleReady, models.BattleOngoing}).
		Order("id DESC").
		First(&battle).Error
	if err != nil {
		return nil, notFound(err, "战斗")
	}
	return &battle, nil
}

// ListByPlayer 分页列出玩家的战斗
func (r *battleRepo) ListByPlayer(ctx context.Context, playerID uint, pagination *Pagination) ([]*models.Battle, error) {
	var battles []*models.Battle
	query := r.db.WithContext(ctx).Model(&models.Battle{}).Where("player_id = ?", playerID)

	if pagination != nil {
		if err := query.Count(&pagination.Total).Error; err != nil {
			return nil, err
		}
		query = query.Scopes(Paginate(pagination))
	}

	err := query.Order("id DESC").Find(&battles).Error
	return battles, err
}

// fightQuery 已结束战斗连接玩家名字
func (r *battleRepo) fightQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("battles").
		Select("battles.id AS battle_id, battles.player_id, players.name AS player_name, " +
			"battles.epicness, battles.tronium, battles.spins, battles.started_at, battles.finished_at").
		Joins("JOIN players ON players.id = battles.player_id").
		Where("battles.status = ? AND battles.deleted_at IS NULL", models.BattleFinished)
}

// Top 已结束战斗排行
func (r *battleRepo) Top(ctx context.Context, order FightOrder, since *time.Time, limit int) ([]FightRow, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("不支持的排行依据: %s", order)
	}
	if limit <= 0 {
		limit = 10
	}

	query := r.fightQuery(ctx)
	if since != nil {
		query = query.Where("battles.finished_at >= ?", *since)
	}

	var rows []FightRow
	err := query.
		Order(fmt.Sprintf("battles.%s DESC, battles.id ASC", order)).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// BestOfPlayer 玩家最好的一场战斗
func (r *battleRepo) BestOfPlayer(ctx context.Context, playerID uint, order FightOrder) (*FightRow, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("不支持的排行依据: %s", order)
	}

	var rows []FightRow
	err := r.fightQuery(ctx).
		Where("battles.player_id = ?", playerID).
		Order(fmt.Sprintf("battles.%s DESC, battles.id ASC", order)).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "战斗")
	}
	return &rows[0], nil
}

// CountFinished 已结束战斗总数
func (r *battleRepo) CountFinished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Battle{}).
		Where("status = ?", models.BattleFinished).
		Count(&count).Error
	return count, err
}
