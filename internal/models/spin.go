package models

// SpinRecord 旋转记录，保存抽取值以便回放
type SpinRecord struct {
	BaseModel
	RoundID        string      `gorm:"uniqueIndex;size:36;not null" json:"round_id"`
	PlayerID       uint        `gorm:"not null;index" json:"player_id"`
	BattleID       uint        `gorm:"not null;index" json:"battle_id"`
	Boost          string      `gorm:"size:20;not null" json:"boost"`
	Lines          int         `gorm:"not null" json:"lines"`
	Cost           int64       `gorm:"not null" json:"cost"`
	Draws          JSONFloats  `gorm:"type:text" json:"draws"`
	MoveIDs        JSONStrings `gorm:"type:text" json:"move_ids"`
	Payout         int64       `gorm:"default:0" json:"payout"`
	Damage         int64       `gorm:"default:0" json:"damage"`
	Epicness       int64       `gorm:"default:0" json:"epicness"`
	FeaturedMove   string      `gorm:"size:20" json:"featured_move"`
	BalanceAfter   int64       `json:"balance_after"`
	VillainHPAfter int64       `json:"villain_hp_after"`
}

// TableName 指定表名
func (SpinRecord) TableName() string {
	return "spin_records"
}

// Net 本次旋转净收益
func (s *SpinRecord) Net() int64 {
	return s.Payout - s.Cost
}
