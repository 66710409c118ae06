package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/souq-next/internal/country"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"

	"golang.org/x/sync/errgroup"
)

// WarehouseService 仓库库存服务
// 说明：入库、库存流水与多国库存汇总。
type WarehouseService struct {
	productRepo     repository.ProductRepository
	orderRepo       repository.OrderRepository
	defaultCurrency string
}

// NewWarehouseService 创建仓库服务
func NewWarehouseService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, defaultCurrency string) *WarehouseService {
	currency := strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if currency == "" {
		currency = country.DefaultCurrency
	}
	return &WarehouseService{
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		defaultCurrency: currency,
	}
}

// AddStockInput 入库输入
type AddStockInput struct {
	ProductID uint
	Country   string
	Quantity  int
	Notes     string
}

// StockView 入库后的库存视图
type StockView struct {
	ProductID      uint           `json:"product_id"`
	StockQty       int            `json:"stock_qty"`
	TotalPurchased int            `json:"total_purchased"`
	StockByCountry map[string]int `json:"stock_by_country"`
}

// Summary 列出可见商品的库存汇总
func (s *WarehouseService) Summary(ctx context.Context, scope Scope, search string) ([]ProductSummary, error) {
	products, err := s.productRepo.List(ctx, repository.ProductListFilter{
		Workspace: scope.Workspace(),
		Search:    search,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return []ProductSummary{}, nil
	}

	productIDs := make([]uint, 0, len(products))
	targets := make(map[uint]struct{}, len(products))
	for _, product := range products {
		productIDs = append(productIDs, product.ID)
		targets[product.ID] = struct{}{}
	}

	var reservations ReservationMap
	var deliveries DeliveryAggregate
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		orders, err := s.orderRepo.ListReservingOrders(groupCtx, productIDs, scope.Workspace())
		if err != nil {
			return fmt.Errorf("list reserving orders: %w", err)
		}
		reservations = aggregateReservations(orders, targets)
		return nil
	})
	group.Go(func() error {
		orders, err := s.orderRepo.ListDeliveredOrders(groupCtx, productIDs, scope.Workspace())
		if err != nil {
			return fmt.Errorf("list delivered orders: %w", err)
		}
		deliveries = aggregateDeliveries(orders, targets)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	rows := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		bought := InitialStockByCountry(product.StockHistory, product.CountryStocks)
		rows = append(rows, composeProductSummary(product, bought, reservations, deliveries, scope, s.defaultCurrency))
	}
	sortSummaries(rows)
	return rows, nil
}

// AddStock 为某国追加库存
func (s *WarehouseService) AddStock(ctx context.Context, scope Scope, input AddStockInput) (*StockView, error) {
	if input.ProductID == 0 {
		return nil, ErrInvalidProductID
	}
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if strings.TrimSpace(input.Country) == "" {
		return nil, ErrCountryRequired
	}
	code := country.Normalize(input.Country)

	product, err := s.authorizeProduct(ctx, scope, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsCountry(code) {
		return nil, ErrForbidden
	}

	updated, err := s.productRepo.AddStock(ctx, repository.AddStockParams{
		ProductID: product.ID,
		Country:   code,
		Quantity:  input.Quantity,
		Note:      input.Notes,
		AddedBy:   scope.UserID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("add stock: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return &StockView{
		ProductID:      updated.ID,
		StockQty:       updated.StockQty,
		TotalPurchased: updated.TotalPurchased,
		StockByCountry: updated.StockByCountry(),
	}, nil
}

// History 商品入库流水（按时间倒序）
// 受国家限制的经理只看到白名单国家的流水。
func (s *WarehouseService) History(ctx context.Context, scope Scope, productID uint) ([]models.ProductStockEntry, error) {
	if productID == 0 {
		return nil, ErrInvalidProductID
	}
	if _, err := s.authorizeProduct(ctx, scope, productID); err != nil {
		return nil, err
	}
	entries, err := s.productRepo.ListStockHistory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	if !scope.CountryRestricted() {
		return entries, nil
	}
	visible := make([]models.ProductStockEntry, 0, len(entries))
	for _, entry := range entries {
		if scope.AllowsCountry(country.Normalize(entry.Country)) {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}

// authorizeProduct 先校验范围，再返回任何数据
func (s *WarehouseService) authorizeProduct(ctx context.Context, scope Scope, productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if !scope.Owns(product.OwnerID) {
		return nil, ErrForbidden
	}
	return product, nil
}
