package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                            // 主键
	OwnerID           uint           `gorm:"not null;index" json:"owner_id"`                                  // 所属卖家（工作区）
	Name              string         `gorm:"type:varchar(255);not null" json:"name"`                          // 商品名称
	Price             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`              // 销售单价
	DropshippingPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"dropshipping_price"` // 代发单价（0 表示未设置）
	PurchasePrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"purchase_price"`     // 采购单价
	BaseCurrency      string         `gorm:"type:varchar(10);not null;default:'AED'" json:"base_currency"`    // 基础币种
	StockQty          int            `gorm:"not null;default:0" json:"stock_qty"`                             // 各国库存之和（缓存）
	TotalPurchased    int            `gorm:"not null;default:0" json:"total_purchased"`                       // 累计采购量（缓存）
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	// 关联
	CountryStocks []ProductCountryStock `gorm:"foreignKey:ProductID" json:"country_stocks,omitempty"` // 各国库存快照
	StockHistory  []ProductStockEntry   `gorm:"foreignKey:ProductID" json:"stock_history,omitempty"`  // 入库流水
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// StockByCountry 将库存快照转换为国家映射
func (p Product) StockByCountry() map[string]int {
	result := make(map[string]int, len(p.CountryStocks))
	for _, row := range p.CountryStocks {
		result[row.Country] += row.Quantity
	}
	return result
}

// SyncDerivedStock 按快照与流水重算缓存字段
func (p *Product) SyncDerivedStock() {
	stockQty := 0
	for _, row := range p.CountryStocks {
		stockQty += row.Quantity
	}
	p.StockQty = stockQty
	if len(p.StockHistory) == 0 {
		p.TotalPurchased = stockQty
		return
	}
	purchased := 0
	for _, entry := range p.StockHistory {
		purchased += entry.Quantity
	}
	p.TotalPurchased = purchased
}

// BeforeCreate 创建前同步缓存字段
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	p.SyncDerivedStock()
	return nil
}
