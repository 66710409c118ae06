package repository

import (
	"context"
	"errors"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
// 说明：只负责按条件取数，聚合规则在 service 层。
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListReservingOrders(ctx context.Context, productIDs []uint, workspace WorkspaceFilter) ([]models.Order, error)
	ListDeliveredOrders(ctx context.Context, productIDs []uint, workspace WorkspaceFilter) ([]models.Order, error)
	ListProfitCandidates(ctx context.Context, workspace WorkspaceFilter) ([]models.Order, error)
	UpdateDropshipperProfit(ctx context.Context, orderID uint, amount decimal.Decimal, reconciledAt time.Time) (int64, error)
	ListFinance(ctx context.Context, filter FinanceOrderFilter) ([]models.Order, int64, error)
	SumFinance(ctx context.Context, filter FinanceOrderFilter) (FinanceTotalsRow, error)
}

// FinanceTotalsRow 代发利润汇总
type FinanceTotalsRow struct {
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	UnpaidAmount decimal.Decimal
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// referencingProducts 限定引用目标商品的订单（订单项或旧版单品字段）
func referencingProducts(query *gorm.DB, productIDs []uint) *gorm.DB {
	return query.Where(
		"(orders.product_id IN ? OR orders.id IN (SELECT oi.order_id FROM order_items oi WHERE oi.product_id IN ?))",
		productIDs, productIDs,
	)
}

// ListReservingOrders 占用入库基线的订单
// 入库基线只增不减，已签收订单同样扣减；仅已核验的取消/退货单释放库存。
func (r *GormOrderRepository) ListReservingOrders(ctx context.Context, productIDs []uint, workspace WorkspaceFilter) ([]models.Order, error) {
	if len(productIDs) == 0 {
		return []models.Order{}, nil
	}
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("(orders.shipment_status NOT IN ? OR orders.return_verified = ?)", constants.ReleasableShipmentStatuses, false)
	query = applyWorkspace(query, "orders.created_by", workspace)
	query = referencingProducts(query, productIDs)

	var orders []models.Order
	if err := query.Preload("Items").Order("orders.id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListDeliveredOrders 已签收订单
func (r *GormOrderRepository) ListDeliveredOrders(ctx context.Context, productIDs []uint, workspace WorkspaceFilter) ([]models.Order, error) {
	if len(productIDs) == 0 {
		return []models.Order{}, nil
	}
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("orders.shipment_status = ?", constants.ShipmentStatusDelivered)
	query = applyWorkspace(query, "orders.created_by", workspace)
	query = referencingProducts(query, productIDs)

	var orders []models.Order
	if err := query.Preload("Items").Order("orders.id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) profitCandidateBase(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("shipment_status = ? AND total > 0", constants.ShipmentStatusDelivered).
		Where("(dropshipper_profit_amount IS NULL OR dropshipper_profit_amount <= 0)")
}

// ListProfitCandidates 利润缺失或非正、但订单金额为正的已签收订单
func (r *GormOrderRepository) ListProfitCandidates(ctx context.Context, workspace WorkspaceFilter) ([]models.Order, error) {
	query := applyWorkspace(r.profitCandidateBase(ctx), "created_by", workspace)
	var orders []models.Order
	if err := query.Preload("Items").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateDropshipperProfit 写入修正后的利润
// 条件更新：仅当存储值仍为空或非正时生效，并发执行时后到者影响行数为 0。
func (r *GormOrderRepository) UpdateDropshipperProfit(ctx context.Context, orderID uint, amount decimal.Decimal, reconciledAt time.Time) (int64, error) {
	if orderID == 0 {
		return 0, errors.New("invalid order id")
	}
	result := r.profitCandidateBase(ctx).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"dropshipper_profit_amount": models.NewMoneyFromDecimal(amount),
			"profit_reconciled_at":      reconciledAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormOrderRepository) financeBase(ctx context.Context, filter FinanceOrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("shipment_status = ?", constants.ShipmentStatusDelivered)
	query = applyWorkspace(query, "created_by", filter.Workspace)
	if filter.IsPaid != nil {
		query = query.Where("dropshipper_profit_is_paid = ?", *filter.IsPaid)
	}
	return query
}

// ListFinance 已签收订单财务流水
func (r *GormOrderRepository) ListFinance(ctx context.Context, filter FinanceOrderFilter) ([]models.Order, int64, error) {
	query := r.financeBase(ctx, filter)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	query = applyPagination(r.financeBase(ctx, filter), filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// SumFinance 汇总代发利润（总额/已结算/未结算）
func (r *GormOrderRepository) SumFinance(ctx context.Context, filter FinanceOrderFilter) (FinanceTotalsRow, error) {
	row := FinanceTotalsRow{}
	if err := r.financeBase(ctx, filter).
		Select(
			"COALESCE(SUM(dropshipper_profit_amount), 0) AS total_amount, " +
				"COALESCE(SUM(CASE WHEN dropshipper_profit_is_paid THEN dropshipper_profit_amount ELSE 0 END), 0) AS paid_amount, " +
				"COALESCE(SUM(CASE WHEN dropshipper_profit_is_paid THEN 0 ELSE dropshipper_profit_amount END), 0) AS unpaid_amount",
		).
		Scan(&row).Error; err != nil {
		return row, err
	}
	return row, nil
}
