package repository

import (
	"time"

	"github.com/wfunc/battle-slot/internal/database"
	"github.com/wfunc/battle-slot/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置测试数据库
func SetupTestDB() *gorm.DB {
	// 内存数据库每个连接各自独立，只能保留一个连接
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// CreateTestPlayer 创建测试玩家
func CreateTestPlayer(db *gorm.DB, name string, tronium int64) *models.Player {
	player := &models.Player{Name: name, Tronium: tronium}
	if err := db.Create(player).Error; err != nil {
		panic(err)
	}
	return player
}

// CreateFinishedBattle 创建一场已结束的战斗
func CreateFinishedBattle(db *gorm.DB, playerID uint, epicness, tronium int64, took time.Duration, finishedAt time.Time) *models.Battle {
	battle := &models.Battle{
		PlayerID:     playerID,
		Status:       models.BattleFinished,
		Epicness:     epicness,
		Tronium:      tronium,
		VillainHP:    0,
		VillainMaxHP: 100,
		Spins:        1,
		StartedAt:    finishedAt.Add(-took),
		FinishedAt:   &finishedAt,
	}
	if err := db.Create(battle).Error; err != nil {
		panic(err)
	}
	return battle
}
