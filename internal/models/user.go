package models

import (
	"time"

	"gorm.io/gorm"
)

// User 调用方账号（卖家/管理员/国家经理）
type User struct {
	ID               uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name             string         `gorm:"type:varchar(120);not null" json:"name"`             // 名称
	Role             string         `gorm:"type:varchar(20);not null;index" json:"role"`        // 角色（admin/seller/manager）
	OwnerID          uint           `gorm:"index;not null;default:0" json:"owner_id,omitempty"` // 所属工作区（经理为卖家 ID）
	AllowedCountries StringArray    `gorm:"type:json" json:"allowed_countries,omitempty"`       // 经理可见国家
	IsActive         bool           `gorm:"default:true" json:"is_active"`                      // 是否启用
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
