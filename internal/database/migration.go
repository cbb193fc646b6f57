package database

import (
	"context"
	"fmt"

	"github.com/wfunc/battle-slot/internal/logger"
	"github.com/wfunc/battle-slot/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models 需要迁移的模型
func Models() []interface{} {
	return []interface{}{
		&models.Player{},
		&models.Battle{},
		&models.SpinRecord{},
	}
}

// AutoMigrate 迁移全局数据库
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 清理过期锁文件
	CleanupStaleLocks()

	// 获取迁移锁，避免多个进程同时迁移同一个SQLite文件
	if dbPath := getDBPath(DB); dbPath != "" {
		lockFile, err := acquireMigrationLock(dbPath)
		if err != nil {
			logger.Error("无法获取迁移锁", zap.Error(err))
			return fmt.Errorf("获取迁移锁失败: %w", err)
		}
		defer releaseMigrationLock(lockFile)
	}

	return Migrate(DB)
}

// Migrate 迁移表结构并创建索引
func Migrate(db *gorm.DB) error {
	logger.Info("开始数据库迁移...")

	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			logger.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	createIndexes(db)

	logger.Info("数据库迁移完成")
	return nil
}

// createIndexes 创建排行查询使用的组合索引
func createIndexes(db *gorm.DB) {
	indexes := []struct {
		name string
		sql  string
	}{
		{"idx_battles_player_status", "CREATE INDEX IF NOT EXISTS idx_battles_player_status ON battles(player_id, status)"},
		{"idx_battles_status_epicness", "CREATE INDEX IF NOT EXISTS idx_battles_status_epicness ON battles(status, epicness)"},
		{"idx_battles_status_tronium", "CREATE INDEX IF NOT EXISTS idx_battles_status_tronium ON battles(status, tronium)"},
		{"idx_spin_records_player_created", "CREATE INDEX IF NOT EXISTS idx_spin_records_player_created ON spin_records(player_id, created_at)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			logger.Warn("创建索引失败", zap.String("index", idx.name), zap.Error(err))
		}
	}
}

// DropAllTables 删除所有表（仅用于测试环境）
func DropAllTables(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("数据库未初始化")
	}

	tx := withoutPreparedStmts(db)
	for _, model := range Models() {
		if err := tx.Migrator().DropTable(model); err != nil {
			logger.Error("删除表失败", zap.String("model", fmt.Sprintf("%T", model)), zap.Error(err))
			return err
		}
	}

	logger.Info("所有表已删除")
	return nil
}

// withoutPreparedStmts 关闭预编译语句缓存并返回直连会话
// SQLite 在同一连接上还有缓存语句时无法 DROP TABLE
func withoutPreparedStmts(db *gorm.DB) *gorm.DB {
	prepared, ok := db.ConnPool.(*gorm.PreparedStmtDB)
	if !ok {
		return db
	}

	prepared.Mux.Lock()
	for query, stmt := range prepared.Stmts {
		if stmt != nil && stmt.Stmt != nil {
			_ = stmt.Stmt.Close()
		}
		delete(prepared.Stmts, query)
	}
	prepared.PreparedSQL = prepared.PreparedSQL[:0]
	prepared.Mux.Unlock()

	tx := db.Session(&gorm.Session{Context: context.Background()})
	tx.Config.ConnPool = prepared.ConnPool
	tx.Config.PrepareStmt = false
	tx.Statement.ConnPool = prepared.ConnPool
	return tx
}
