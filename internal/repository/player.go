package repository

import (
	"context"

	"github.com/wfunc/battle-slot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerRepository 玩家仓储接口
type PlayerRepository interface {
	BaseRepository
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	FindByID(ctx context.Context, id uint) (*models.Player, error)
	FindByName(ctx context.Context, name string) (*models.Player, error)
	// FindByIDForUpdate 事务内读取玩家（MySQL/PostgreSQL加行锁）
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Player, error)
	List(ctx context.Context, pagination *Pagination) ([]*models.Player, error)
	Count(ctx context.Context) (int64, error)
}

// playerRepo 玩家仓储实现
type playerRepo struct {
	*BaseRepo
}

// NewPlayerRepository 创建玩家仓储
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建玩家
func (r *playerRepo) Create(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

// Update 保存玩家
func (r *playerRepo) Update(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Save(player).Error
}

// FindByID 根据ID查找玩家
func (r *playerRepo) FindByID(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).First(&player, id).Error; err != nil {
		return nil, notFound(err, "玩家")
	}
	return &player, nil
}

// FindByName 根据名字查找玩家
func (r *playerRepo) FindByName(ctx context.Context, name string) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&player).Error; err != nil {
		return nil, notFound(err, "玩家")
	}
	return &player, nil
}

// FindByIDForUpdate 事务内读取玩家
func (r *playerRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Player, error) {
	db := r.db.WithContext(ctx)
	// SQLite 不支持 FOR UPDATE，写事务本身串行
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var player models.Player
	if err := db.First(&player, id).Error; err != nil {
		return nil, notFound(err, "玩家")
	}
	return &player, nil
}

// List 分页列出玩家，按名望降序
func (r *playerRepo) List(ctx context.Context, pagination *Pagination) ([]*models.Player, error) {
	var players []*models.Player
	query := r.db.WithContext(ctx).Model(&models.Player{})

	if pagination != nil {
		if err := query.Count(&pagination.Total).Error; err != nil {
			return nil, err
		}
		query = query.Scopes(Paginate(pagination))
	}

	err := query.Order("fame DESC, id ASC").Find(&players).Error
	return players, err
}

// Count 玩家总数
func (r *playerRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Player{}).Count(&count).Error
	return count, err
}
