package main

import (
	"context"
	"fmt"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"
	"github.com/souq-next/internal/service"
)

type seedProduct struct {
	name     string
	price    string
	dropship string
	purchase string
	currency string
	stock    map[string]int
	legacy   bool // 仅写快照，不写入库流水
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(models.DB)
	productRepo := repository.NewProductRepository(models.DB)
	orderRepo := repository.NewOrderRepository(models.DB)

	// 账号
	ensureUser := func(user models.User) *models.User {
		var existing models.User
		if err := models.DB.Where("name = ?", user.Name).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", user.Name)
			return &existing
		}
		user.IsActive = true
		if err := userRepo.Create(ctx, &user); err != nil {
			stdLog.Fatalf("Failed to create user %s: %v", user.Name, err)
		}
		stdLog.Printf("Created user: %s (%s)", user.Name, user.Role)
		return &user
	}
	admin := ensureUser(models.User{Name: "souq-admin", Role: constants.RoleAdmin})
	seller := ensureUser(models.User{Name: "souq-seller", Role: constants.RoleSeller})
	assistant := ensureUser(models.User{Name: "souq-seller-assistant", Role: constants.RoleSeller, OwnerID: seller.ID})
	manager := ensureUser(models.User{
		Name:             "souq-uae-manager",
		Role:             constants.RoleManager,
		OwnerID:          seller.ID,
		AllowedCountries: models.StringArray{"UAE"},
	})

	// 商品
	products := []seedProduct{
		{name: "Oud Perfume 50ml", price: "180", dropship: "120", purchase: "70", currency: "AED", stock: map[string]int{"UAE": 40, "KSA": 25, "Oman": 10}},
		{name: "Prayer Mat Deluxe", price: "95", dropship: "60", purchase: "30", currency: "AED", stock: map[string]int{"UAE": 30, "Kuwait": 15}},
		{name: "Dates Gift Box", price: "60", dropship: "0", purchase: "22", currency: "SAR", stock: map[string]int{"KSA": 50, "Bahrain": 12}},
		{name: "Legacy Abaya", price: "240", dropship: "160", purchase: "110", currency: "AED", stock: map[string]int{"UAE": 8, "Qatar": 4}, legacy: true},
	}
	productIDs := make([]uint, 0, len(products))
	for _, row := range products {
		var existing models.Product
		if err := models.DB.Where("name = ? AND owner_id = ?", row.name, seller.ID).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", row.name)
			productIDs = append(productIDs, existing.ID)
			continue
		}

		product := models.Product{
			OwnerID:           seller.ID,
			Name:              row.name,
			Price:             models.NewMoney(row.price),
			DropshippingPrice: models.NewMoney(row.dropship),
			PurchasePrice:     models.NewMoney(row.purchase),
			BaseCurrency:      row.currency,
		}
		if row.legacy {
			for code, qty := range row.stock {
				product.CountryStocks = append(product.CountryStocks, models.ProductCountryStock{Country: code, Quantity: qty})
			}
		}
		if err := productRepo.Create(ctx, &product); err != nil {
			stdLog.Fatalf("Failed to create product %s: %v", row.name, err)
		}
		if !row.legacy {
			for code, qty := range row.stock {
				if _, err := productRepo.AddStock(ctx, repository.AddStockParams{
					ProductID: product.ID,
					Country:   code,
					Quantity:  qty,
					Note:      "seed",
					AddedBy:   admin.ID,
				}); err != nil {
					stdLog.Fatalf("Failed to add stock for %s: %v", row.name, err)
				}
			}
		}
		stdLog.Printf("Created product: %s", row.name)
		productIDs = append(productIDs, product.ID)
	}

	// 订单：覆盖全部物流状态，新旧两种订单结构
	now := time.Now()
	deliveredAt := now.Add(-48 * time.Hour)
	for i, status := range constants.ShipmentStatuses {
		orderNo := fmt.Sprintf("SEED-%02d-%s", i+1, status)
		var count int64
		models.DB.Model(&models.Order{}).Where("order_no = ?", orderNo).Count(&count)
		if count > 0 {
			stdLog.Printf("Order already exists: %s", orderNo)
			continue
		}

		creator := seller.ID
		if i%3 == 2 {
			creator = assistant.ID
		}
		countries := []string{"Dubai", "saudi arabia", "Muscat", "kuwait", "Manama"}
		order := models.Order{
			OrderNo:        orderNo,
			CreatedBy:      creator,
			OrderCountry:   countries[i%len(countries)],
			ShipmentStatus: status,
			ReturnVerified: status == constants.ShipmentStatusReturned,
		}
		if i%2 == 0 {
			productID := productIDs[i%len(productIDs)]
			order.ProductID = &productID
			order.Quantity = 1 + i%3
			order.Total = models.NewMoney(fmt.Sprintf("%d", 150+i*20))
		} else {
			order.Items = []models.OrderItem{
				{ProductID: productIDs[0], Quantity: 1},
				{ProductID: productIDs[1], Quantity: 2},
			}
			order.Total = models.NewMoney("320")
			order.Discount = models.NewMoney("15")
		}
		if status == constants.ShipmentStatusDelivered {
			order.DeliveredAt = &deliveredAt
		}
		if err := orderRepo.Create(ctx, &order); err != nil {
			stdLog.Fatalf("Failed to create order %s: %v", orderNo, err)
		}
		stdLog.Printf("Created order: %s", orderNo)
	}

	// 额外的已签收订单：利润缺失，供对账修正
	extra := []models.Order{
		{OrderNo: "SEED-DELIVERED-MULTI", CreatedBy: seller.ID, OrderCountry: "UAE", ShipmentStatus: constants.ShipmentStatusDelivered, Total: models.NewMoney("410"), Currency: "AED",
			Items: []models.OrderItem{{ProductID: productIDs[0], Quantity: 2}, {ProductID: productIDs[2], Quantity: 1}}},
		{OrderNo: "SEED-DELIVERED-PAID", CreatedBy: seller.ID, OrderCountry: "KSA", ShipmentStatus: constants.ShipmentStatusDelivered, Total: models.NewMoney("180"),
			ProductID: &productIDs[0], Quantity: 1, DropshipperProfitAmount: models.NewMoney("60"), DropshipperProfitIsPaid: true, DropshipperProfitPaidAt: &now, DropshipperProfitPaidBy: &admin.ID},
		{OrderNo: "SEED-CANCELLED-UNVERIFIED", CreatedBy: seller.ID, OrderCountry: "Oman", ShipmentStatus: constants.ShipmentStatusCancelled, Total: models.NewMoney("180"),
			ProductID: &productIDs[0], Quantity: 2},
	}
	for i := range extra {
		var count int64
		models.DB.Model(&models.Order{}).Where("order_no = ?", extra[i].OrderNo).Count(&count)
		if count > 0 {
			continue
		}
		if extra[i].ShipmentStatus == constants.ShipmentStatusDelivered {
			extra[i].DeliveredAt = &deliveredAt
		}
		if err := orderRepo.Create(ctx, &extra[i]); err != nil {
			stdLog.Fatalf("Failed to create order %s: %v", extra[i].OrderNo, err)
		}
		stdLog.Printf("Created order: %s", extra[i].OrderNo)
	}

	// 演示令牌
	tokens := service.NewTokenService(cfg.JWT)
	for _, user := range []*models.User{admin, seller, manager} {
		token, expiresAt, err := tokens.Issue(user.ID)
		if err != nil {
			stdLog.Printf("Failed to issue token for %s: %v", user.Name, err)
			continue
		}
		fmt.Printf("%-18s role=%-8s expires=%s\n  Bearer %s\n", user.Name, user.Role, expiresAt.Format(time.RFC3339), token)
	}

	stdLog.Printf("Seed completed")
}
