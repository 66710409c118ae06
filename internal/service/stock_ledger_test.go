package service

import (
	"context"
	"testing"

	"github.com/souq-next/internal/models"
)

func TestInitialStockByCountryPrefersHistory(t *testing.T) {
	history := []models.ProductStockEntry{{Country: "uae", Quantity: 2}, {Country: "United Arab Emirates", Quantity: 3}}
	snapshot := []models.ProductCountryStock{{Country: "KSA", Quantity: 9}}
	got := InitialStockByCountry(history, snapshot)
	if len(got) != 1 || got["UAE"] != 5 {
		t.Fatalf("history baseline want UAE=5 got %+v", got)
	}
	got = InitialStockByCountry(nil, snapshot)
	if len(got) != 1 || got["KSA"] != 9 {
		t.Fatalf("snapshot baseline want KSA=9 got %+v", got)
	}
}

// 仅有快照的商品首次入库后，bought 只认流水，total_purchased 仍含原快照
func TestLegacyProductFirstAddStockSwitchesBaseline(t *testing.T) {
	env := newServiceTestEnv(t, "ledger_legacy")
	product := env.createProduct(t, models.Product{
		OwnerID:       1,
		Name:          "Legacy Shelf",
		Price:         models.NewMoney("10"),
		PurchasePrice: models.NewMoney("5"),
		CountryStocks: []models.ProductCountryStock{{Country: "UAE", Quantity: 4}},
	})
	svc := NewWarehouseService(env.productRepo, env.orderRepo, "AED")

	before := summaryFor(t, svc, sellerScope(1), product.ID)
	if before.TotalBought != 4 || before.BoughtByCountry["UAE"] != 4 {
		t.Fatalf("snapshot baseline want UAE=4 got %+v", before.BoughtByCountry)
	}

	env.addStock(t, product.ID, "KSA", 6)
	after := summaryFor(t, svc, sellerScope(1), product.ID)
	if after.TotalBought != 6 || after.BoughtByCountry["KSA"] != 6 || after.BoughtByCountry["UAE"] != 0 {
		t.Fatalf("history baseline want KSA=6 only got %+v", after.BoughtByCountry)
	}

	stored, err := env.productRepo.GetByID(context.Background(), product.ID)
	if err != nil || stored == nil {
		t.Fatalf("get product failed: %v", err)
	}
	if stored.TotalPurchased != 10 || stored.StockQty != 10 {
		t.Fatalf("cached totals want 10/10 got %d/%d", stored.TotalPurchased, stored.StockQty)
	}
}
