package models

import (
	"time"

	"gorm.io/gorm"
)

// Player 玩家
type Player struct {
	BaseModel
	Name             string     `gorm:"uniqueIndex;size:50;not null" json:"name"`
	PasswordHash     string     `gorm:"size:255" json:"-"`
	Tronium          int64      `gorm:"default:0" json:"tronium"`
	Fame             int64      `gorm:"default:0" json:"fame"`
	VillainsDefeated int        `gorm:"default:0" json:"villains_defeated"`
	TotalSpins       int64      `gorm:"default:0" json:"total_spins"`
	LastSpinAt       *time.Time `json:"last_spin_at,omitempty"`
}

// TableName 指定表名
func (Player) TableName() string {
	return "players"
}

// BeforeCreate 创建前的钩子
func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.Tronium < 0 {
		p.Tronium = 0
	}
	return nil
}

// CanAfford 余额是否足够
func (p *Player) CanAfford(cost int64) bool {
	return p.Tronium >= cost
}

// HasPassword 是否设置了密码
func (p *Player) HasPassword() bool {
	return p.PasswordHash != ""
}
