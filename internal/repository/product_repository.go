package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/souq-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProductNotFound 商品不存在
var ErrProductNotFound = errors.New("product not found")

// ProductRepository 商品与库存数据访问接口
type ProductRepository interface {
	List(ctx context.Context, filter ProductListFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	ListStockHistory(ctx context.Context, productID uint) ([]models.ProductStockEntry, error)
	Create(ctx context.Context, product *models.Product) error
	AddStock(ctx context.Context, params AddStockParams) (*models.Product, error)
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func withStock(query *gorm.DB) *gorm.DB {
	return query.Preload("CountryStocks", func(db *gorm.DB) *gorm.DB {
		return db.Order("country ASC")
	}).Preload("StockHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// List 按工作区列出商品（含库存快照与流水）
func (r *GormProductRepository) List(ctx context.Context, filter ProductListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	query = applyWorkspace(query, "owner_id", filter.Workspace)
	if len(filter.ProductIDs) > 0 {
		query = query.Where("id IN ?", filter.ProductIDs)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"name"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}

	var products []models.Product
	if err := withStock(query).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := withStock(r.db.WithContext(ctx)).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品（不含流水）
func (r *GormProductRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListStockHistory 入库流水，按时间倒序
func (r *GormProductRepository) ListStockHistory(ctx context.Context, productID uint) ([]models.ProductStockEntry, error) {
	var entries []models.ProductStockEntry
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// AddStock 原子入库：追加流水、累加国家库存、累加缓存字段
// 全部通过增量表达式完成，不存在读-改-写。
func (r *GormProductRepository) AddStock(ctx context.Context, params AddStockParams) (*models.Product, error) {
	if params.ProductID == 0 || params.Quantity <= 0 || strings.TrimSpace(params.Country) == "" {
		return nil, errors.New("invalid add stock params")
	}
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先更新商品行以持有行锁，首次入库时以当前库存作为累计采购基线
		result := tx.Model(&models.Product{}).
			Where("id = ?", params.ProductID).
			Updates(map[string]interface{}{
				"stock_qty": gorm.Expr("stock_qty + ?", params.Quantity),
				"total_purchased": gorm.Expr(
					"(CASE WHEN EXISTS (SELECT 1 FROM product_stock_entries pse WHERE pse.product_id = products.id) THEN total_purchased ELSE stock_qty END) + ?",
					params.Quantity,
				),
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}

		entry := models.ProductStockEntry{
			ProductID: params.ProductID,
			Country:   params.Country,
			Quantity:  params.Quantity,
			Note:      strings.TrimSpace(params.Note),
			AddedBy:   params.AddedBy,
			CreatedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		bucket := models.ProductCountryStock{
			ProductID: params.ProductID,
			Country:   params.Country,
			Quantity:  params.Quantity,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "country"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("product_country_stocks.quantity + ?", params.Quantity),
				"updated_at": now,
			}),
		}).Create(&bucket).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, params.ProductID)
}
