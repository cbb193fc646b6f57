package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Manager 仓储管理器，提供所有仓储的统一访问接口
type Manager struct {
	db *gorm.DB

	// 事务管理器
	txManager TransactionManager

	// 仓储实例（使用懒加载）
	playerOnce sync.Once
	player     PlayerRepository

	battleOnce sync.Once
	battle     BattleRepository

	spinRecordOnce sync.Once
	spinRecord     SpinRecordRepository
}

// NewManager 创建仓储管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		db:        db,
		txManager: NewTransactionManager(db),
	}
}

// GetDB 获取数据库实例
func (m *Manager) GetDB() *gorm.DB {
	return m.db
}

// Transaction 获取事务管理器
func (m *Manager) Transaction() TransactionManager {
	return m.txManager
}

// Player 获取玩家仓储
func (m *Manager) Player() PlayerRepository {
	m.playerOnce.Do(func() {
		m.player = NewPlayerRepository(m.db)
	})
	return m.player
}

// Battle 获取战斗仓储
func (m *Manager) Battle() BattleRepository {
	m.battleOnce.Do(func() {
		m.battle = NewBattleRepository(m.db)
	})
	return m.battle
}

// SpinRecord 获取旋转记录仓储
func (m *Manager) SpinRecord() SpinRecordRepository {
	m.spinRecordOnce.Do(func() {
		m.spinRecord = NewSpinRecordRepository(m.db)
	})
	return m.spinRecord
}

// WithTransaction 在事务中执行
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.txManager.WithTransaction(ctx, fn)
}

// WithReadOnlyTransaction 在只读事务中执行
func (m *Manager) WithReadOnlyTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.txManager.WithTransactionOptions(ctx, &TxOptions{ReadOnly: true}, fn)
}
