package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// TransactionManager 事务管理器接口
type TransactionManager interface {
	// Begin 开始事务
	Begin(ctx context.Context) (*Transaction, error)
	// BeginWithOptions 使用选项开始事务
	BeginWithOptions(ctx context.Context, opts *TxOptions) (*Transaction, error)
	// WithTransaction 在事务中执行函数
	WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error
	// WithTransactionOptions 使用选项在事务中执行函数
	WithTransactionOptions(ctx context.Context, opts *TxOptions, fn func(tx *Transaction) error) error
}

// TxOptions 事务选项
type TxOptions struct {
	// ReadOnly 是否只读事务（SQLite忽略）
	ReadOnly bool
}

// Transaction 事务包装器
type Transaction struct {
	tx         *gorm.DB
	ctx        context.Context
	committed  bool
	rolledback bool

	// 事务中的仓储实例
	player     PlayerRepository
	battle     BattleRepository
	spinRecord SpinRecordRepository
}

// txManager 事务管理器实现
type txManager struct {
	db *gorm.DB
}

// NewTransactionManager 创建事务管理器
func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &txManager{db: db}
}

// Begin 开始事务
func (m *txManager) Begin(ctx context.Context) (*Transaction, error) {
	return m.BeginWithOptions(ctx, nil)
}

// BeginWithOptions 使用选项开始事务
func (m *txManager) BeginWithOptions(ctx context.Context, opts *TxOptions) (*Transaction, error) {
	db := m.db.WithContext(ctx)

	var tx *gorm.DB
	if opts != nil && opts.ReadOnly && db.Dialector.Name() != "sqlite" {
		tx = db.Begin(&sql.TxOptions{ReadOnly: true})
	} else {
		tx = db.Begin()
	}
	if tx.Error != nil {
		return nil, tx.Error
	}

	return &Transaction{
		tx:  tx,
		ctx: ctx,
	}, nil
}

// WithTransaction 在事务中执行函数
func (m *txManager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.WithTransactionOptions(ctx, nil, fn)
}

// WithTransactionOptions 使用选项在事务中执行函数
func (m *txManager) WithTransactionOptions(ctx context.Context, opts *TxOptions, fn func(tx *Transaction) error) error {
	tx, err := m.BeginWithOptions(ctx, opts)
	if err != nil {
		return err
	}

	// panic 时也要回滚
	defer func() {
		if !tx.committed && !tx.rolledback {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Commit 提交事务
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("事务已提交")
	}
	if t.rolledback {
		return fmt.Errorf("事务已回滚")
	}

	if err := t.tx.Commit().Error; err != nil {
		return err
	}

	t.committed = true
	return nil
}

// Rollback 回滚事务
func (t *Transaction) Rollback() error {
	if t.committed {
		return fmt.Errorf("事务已提交，无法回滚")
	}
	if t.rolledback {
		return fmt.Errorf("事务已回滚")
	}

	if err := t.tx.Rollback().Error; err != nil {
		return err
	}

	t.rolledback = true
	return nil
}

// GetDB 获取事务中的数据库实例
func (t *Transaction) GetDB() *gorm.DB {
	return t.tx
}

// Context 事务绑定的上下文
func (t *Transaction) Context() context.Context {
	return t.ctx
}

// Player 获取事务中的玩家仓储
func (t *Transaction) Player() PlayerRepository {
	if t.player == nil {
		t.player = &playerRepo{
			BaseRepo: &BaseRepo{db: t.tx},
		}
	}
	return t.player
}

// Battle 获取事务中的战斗仓储
func (t *Transaction) Battle() BattleRepository {
	if t.battle == nil {
		t.battle = &battleRepo{
			BaseRepo: &BaseRepo{db: t.tx},
		}
	}
	return t.battle
}

// SpinRecord 获取事务中的旋转记录仓储
func (t *Transaction) SpinRecord() SpinRecordRepository {
	if t.spinRecord == nil {
		t.spinRecord = &spinRecordRepo{
			BaseRepo: &BaseRepo{db: t.tx},
		}
	}
	return t.spinRecord
}
