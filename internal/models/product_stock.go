package models

import "time"

// ProductCountryStock 商品分国家库存快照
type ProductCountryStock struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                           // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_country_stock" json:"product_id"`               // 商品ID
	Country   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_product_country_stock" json:"country"` // 规范国家代码
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`                                             // 当前数量
	CreatedAt time.Time `json:"created_at"`                                                                     // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                     // 更新时间
}

// TableName 指定表名
func (ProductCountryStock) TableName() string {
	return "product_country_stocks"
}

// ProductStockEntry 入库流水（只追加，不修改）
type ProductStockEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`         // 商品ID
	Country   string    `gorm:"type:varchar(64);not null" json:"country"` // 国家（写入时已归一化，历史数据可能为原始文本）
	Quantity  int       `gorm:"not null" json:"quantity"`                 // 入库数量
	Note      string    `gorm:"type:varchar(500)" json:"note"`            // 备注
	AddedBy   uint      `gorm:"index;not null;default:0" json:"added_by"` // 操作人
	CreatedAt time.Time `gorm:"index" json:"date"`                        // 入库时间
}

// TableName 指定表名
func (ProductStockEntry) TableName() string {
	return "product_stock_entries"
}
