package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                      uint           `gorm:"primarykey" json:"id"`                                           // 主键
	OrderNo                 string         `gorm:"uniqueIndex;not null" json:"order_no"`                           // 订单编号
	CreatedBy               uint           `gorm:"index;not null" json:"created_by"`                               // 创建人（工作区范围）
	OrderCountry            string         `gorm:"type:varchar(64)" json:"order_country"`                          // 国家（原始文本）
	ShipmentStatus          string         `gorm:"type:varchar(32);index;not null" json:"shipment_status"`         // 物流状态
	ReturnVerified          bool           `gorm:"not null;default:false" json:"return_verified"`                  // 退货是否已核验
	ProductID               *uint          `gorm:"index" json:"product_id,omitempty"`                              // 旧版单品订单商品ID
	Quantity                int            `gorm:"not null;default:0" json:"quantity,omitempty"`                   // 旧版单品订单数量
	Total                   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`             // 订单总额
	Discount                Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`          // 优惠金额
	Currency                string         `gorm:"type:varchar(10)" json:"currency"`                               // 币种（可为空）
	DropshipperProfitAmount Money          `gorm:"type:decimal(20,2)" json:"dropshipper_profit_amount"`            // 代发利润
	DropshipperProfitIsPaid bool           `gorm:"not null;default:false;index" json:"dropshipper_profit_is_paid"` // 利润是否已结算
	DropshipperProfitPaidAt *time.Time     `json:"dropshipper_profit_paid_at,omitempty"`                           // 结算时间
	DropshipperProfitPaidBy *uint          `json:"dropshipper_profit_paid_by,omitempty"`                           // 结算人
	ProfitReconciledAt      *time.Time     `gorm:"index" json:"profit_reconciled_at,omitempty"`                    // 利润最近修正时间
	DeliveredAt             *time.Time     `gorm:"index" json:"delivered_at,omitempty"`                            // 签收时间
	CreatedAt               time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt               time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
