package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// ── 标识符 ──

// NewID 生成 24 位十六进制的 ObjectId 风格标识
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsObjectID 判断字符串是否为合法的 24 位十六进制标识
func IsObjectID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// ObjectIDModel 所有业务模型嵌入的主键
type ObjectIDModel struct {
	ID string `gorm:"type:char(24);primaryKey" json:"id"`
}

// BeforeCreate 主键为空时生成新标识；调用方可预先生成以便在同一事务内互相引用
func (m *ObjectIDModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

// Timestamps 创建与更新时间
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// ── PostgreSQL JSONB 自定义类型 ──

// JSONMap 对应 PostgreSQL JSONB 列，实现 GORM Scanner/Valuer 接口。
type JSONMap map[string]interface{}

// Scan 将 JSONB 文本解析为 map。
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	out := JSONMap{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &out); err != nil {
			return fmt.Errorf("JSONMap.Scan: %w", err)
		}
	}
	*m = out
	return nil
}

// Value 将 map 序列化为 JSON 文本，nil 写入空对象。
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("JSONMap.Value: %w", err)
	}
	return string(b), nil
}
