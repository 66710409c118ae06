package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	productRepo *repository.GormProductRepository
	orderRepo   *repository.GormOrderRepository
	userRepo    *repository.GormUserRepository
	runRepo     *repository.GormReconcileRunRepository
	seq         int
}

func newServiceTestEnv(t *testing.T, name string) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &serviceTestEnv{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		userRepo:    repository.NewUserRepository(db),
		runRepo:     repository.NewReconcileRunRepository(db),
	}
}

func (e *serviceTestEnv) createProduct(t *testing.T, product models.Product) *models.Product {
	t.Helper()
	if product.BaseCurrency == "" {
		product.BaseCurrency = "AED"
	}
	if err := e.productRepo.Create(context.Background(), &product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func (e *serviceTestEnv) addStock(t *testing.T, productID uint, countryCode string, qty int) {
	t.Helper()
	if _, err := e.productRepo.AddStock(context.Background(), repository.AddStockParams{ProductID: productID, Country: countryCode, Quantity: qty}); err != nil {
		t.Fatalf("add stock failed: %v", err)
	}
}

func (e *serviceTestEnv) createOrder(t *testing.T, order models.Order) *models.Order {
	t.Helper()
	e.seq++
	if order.OrderNo == "" {
		order.OrderNo = fmt.Sprintf("SO-%d-%d", time.Now().UnixNano(), e.seq)
	}
	if order.ShipmentStatus == "" {
		order.ShipmentStatus = constants.ShipmentStatusPending
	}
	if err := e.orderRepo.Create(context.Background(), &order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func (e *serviceTestEnv) createUser(t *testing.T, user models.User) *models.User {
	t.Helper()
	user.IsActive = true
	if err := e.userRepo.Create(context.Background(), &user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func sellerScope(ids ...uint) Scope {
	return Scope{UserID: ids[0], Role: constants.RoleSeller, CreatorIDs: ids}
}

func adminScope() Scope {
	return Scope{UserID: 1, Role: constants.RoleAdmin, Unrestricted: true}
}
