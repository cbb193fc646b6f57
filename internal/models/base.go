package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BaseModel 通用字段
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// JSONFloats 以JSON存储的浮点数组（抽取值）
type JSONFloats []float64

// Value 实现 driver.Valuer 接口
func (j JSONFloats) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSONFloats) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// JSONStrings 以JSON存储的字符串数组
type JSONStrings []string

// Value 实现 driver.Valuer 接口
func (j JSONStrings) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSONStrings) Scan(value interface{}) error {
	return scanJSON(value, j)
}

func scanJSON(value interface{}, dest interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dest)
}
