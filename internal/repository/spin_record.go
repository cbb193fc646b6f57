package repository

import (
	"context"

	"github.com/wfunc/battle-slot/internal/models"
	"gorm.io/gorm"
)

// SpinTotals 旋转汇总
type SpinTotals struct {
	Spins    int64 `json:"spins"`
	Cost     int64 `json:"cost"`
	Payout   int64 `json:"payout"`
	Damage   int64 `json:"damage"`
	Epicness int64 `json:"epicness"`
}

// SpinRecordRepository 旋转记录仓储接口
type SpinRecordRepository interface {
	BaseRepository
	Create(ctx context.Context, record *models.SpinRecord) error
	FindByRoundID(ctx context.Context, roundID string) (*models.SpinRecord, error)
	ListByPlayer(ctx context.Context, playerID uint, pagination *Pagination) ([]*models.SpinRecord, error)
	ListByBattle(ctx context.Context, battleID uint) ([]*models.SpinRecord, error)
	// Totals 汇总，playerID 为0时统计全部玩家
	Totals(ctx context.Context, playerID uint) (*SpinTotals, error)
}

// spinRecordRepo 旋转记录仓储实现
type spinRecordRepo struct {
	*BaseRepo
}

// NewSpinRecordRepository 创建旋转记录仓储
func NewSpinRecordRepository(db *gorm.DB) SpinRecordRepository {
	return &spinRecordRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建旋转记录
func (r *spinRecordRepo) Create(ctx context.Context, record *models.SpinRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByRoundID 根据回合ID查找
func (r *spinRecordRepo) FindByRoundID(ctx context.Context, roundID string) (*models.SpinRecord, error) {
	var record models.SpinRecord
	if err := r.db.WithContext(ctx).Where("round_id = ?", roundID).First(&record).Error; err != nil {
		return nil, notFound(err, "旋转记录")
	}
	return &record, nil
}

// ListByPlayer 分页列出玩家的旋转记录，最新的在前
func (r *spinRecordRepo) ListByPlayer(ctx context.Context, playerID uint, pagination *Pagination) ([]*models.SpinRecord, error) {
	var records []*models.SpinRecord
	query := r.db.WithContext(ctx).Model(&models.SpinRecord{}).Where("player_id = ?", playerID)

	if pagination != nil {
		if err := query.Count(&pagination.Total).Error; err != nil {
			return nil, err
		}
		query = query.Scopes(Paginate(pagination))
	}

	err := query.Order("id DESC").Find(&records).Error
	return records, err
}

// ListByBattle 列出一场战斗的全部旋转
func (r *spinRecordRepo) ListByBattle(ctx context.Context, battleID uint) ([]*models.SpinRecord, error) {
	var records []*models.SpinRecord
	err := r.db.WithContext(ctx).
		Where("battle_id = ?", battleID).
		Order("id ASC").
		Find(&records).Error
	return records, err
}

// Totals 汇总旋转数据
func (r *spinRecordRepo) Totals(ctx context.Context, playerID uint) (*SpinTotals, error) {
	var totals SpinTotals
	query := r.db.WithContext(ctx).Model(&models.SpinRecord{}).
		Select("COUNT(*) AS spins, " +
			"COALESCE(SUM(cost), 0) AS cost, " +
			"COALESCE(SUM(payout), 0) AS payout, " +
			"COALESCE(SUM(damage), 0) AS damage, " +
			"COALESCE(SUM(epicness), 0) AS epicness")
	if playerID != 0 {
		query = query.Where("player_id = ?", playerID)
	}

	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}
