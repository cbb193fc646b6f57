package models

import (
	"time"
)

// BattleStatus 战斗状态
type BattleStatus string

const (
	BattleReady    BattleStatus = "READY"
	BattleOngoing  BattleStatus = "ONGOING"
	BattleFinished BattleStatus = "FINISHED"
)

// Battle 一场对反派的战斗
type Battle struct {
	BaseModel
	PlayerID     uint         `gorm:"not null;index" json:"player_id"`
	Status       BattleStatus `gorm:"size:20;not null;index" json:"status"`
	Epicness     int64        `gorm:"default:0" json:"epicness"`
	Tronium      int64        `gorm:"default:0" json:"tronium"` // 本场净收益，可为负
	VillainHP    int64        `gorm:"not null" json:"villain_hp"`
	VillainMaxHP int64        `gorm:"not null" json:"villain_max_hp"`
	Spins        int          `gorm:"default:0" json:"spins"`
	StartedAt    time.Time    `gorm:"not null" json:"started_at"`
	FinishedAt   *time.Time   `gorm:"index" json:"finished_at,omitempty"`
}

// TableName 指定表名
func (Battle) TableName() string {
	return "battles"
}

// IsFinished 是否已结束
func (b *Battle) IsFinished() bool {
	return b.Status == BattleFinished
}

// Seconds 战斗持续秒数，未结束的按当前时间计算
func (b *Battle) Seconds() int64 {
	end := time.Now()
	if b.FinishedAt != nil {
		end = *b.FinishedAt
	}
	if end.Before(b.StartedAt) {
		return 0
	}
	return int64(end.Sub(b.StartedAt) / time.Second)
}

// HPPercent 反派剩余血量百分比
func (b *Battle) HPPercent() float64 {
	if b.VillainMaxHP <= 0 {
		return 0
	}
	return float64(b.VillainHP) * 100 / float64(b.VillainMaxHP)
}
