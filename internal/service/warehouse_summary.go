package service

import (
	"sort"

	"github.com/souq-next/internal/models"

	"github.com/shopspring/decimal"
)

// CountryQuantities 按国家的数量及合计
type CountryQuantities struct {
	ByCountry map[string]int `json:"by_country"`
	Total     int            `json:"total"`
}

// ProductSummary 单个商品的库存/签收/收入汇总
type ProductSummary struct {
	ProductID                  uint                    `json:"product_id"`
	Name                       string                  `json:"name"`
	OwnerID                    uint                    `json:"owner_id"`
	BaseCurrency               string                  `json:"base_currency"`
	Price                      models.Money            `json:"price"`
	PurchasePrice              models.Money            `json:"purchase_price"`
	BoughtByCountry            map[string]int          `json:"bought_by_country"`
	ReservedByCountry          map[string]int          `json:"reserved_by_country"`
	StockLeft                  CountryQuantities       `json:"stock_left"`
	Delivered                  CountryQuantities       `json:"delivered"`
	TotalBought                int                     `json:"total_bought"`
	StockValue                 models.Money            `json:"stock_value"`
	PotentialRevenue           models.Money            `json:"potential_revenue"`
	DeliveredRevenue           models.Money            `json:"delivered_revenue"`
	DeliveredRevenueByCurrency map[string]models.Money `json:"delivered_revenue_by_currency"`
}

// composeProductSummary 组合单个商品的汇总视图
// 国家范围只在这里收窄，聚合器本身与调用方无关。
func composeProductSummary(
	product models.Product,
	bought map[string]int,
	reservations ReservationMap,
	deliveries DeliveryAggregate,
	scope Scope,
	defaultCurrency string,
) ProductSummary {
	summary := ProductSummary{
		ProductID:                  product.ID,
		Name:                       product.Name,
		OwnerID:                    product.OwnerID,
		BaseCurrency:               product.BaseCurrency,
		Price:                      product.Price,
		PurchasePrice:              product.PurchasePrice,
		BoughtByCountry:            bought,
		ReservedByCountry:          make(map[string]int),
		StockLeft:                  CountryQuantities{ByCountry: make(map[string]int)},
		Delivered:                  CountryQuantities{ByCountry: make(map[string]int)},
		DeliveredRevenueByCurrency: make(map[string]models.Money),
	}
	if summary.BaseCurrency == "" {
		summary.BaseCurrency = defaultCurrency
	}

	for code, qty := range bought {
		summary.TotalBought += qty
		left := qty - reservations.Get(product.ID, code)
		if left < 0 {
			left = 0
		}
		summary.StockLeft.ByCountry[code] = left
	}
	for code, qty := range reservations[product.ID] {
		summary.ReservedByCountry[code] = qty
		if _, ok := summary.StockLeft.ByCountry[code]; !ok {
			summary.StockLeft.ByCountry[code] = 0
		}
	}
	for code, bucket := range deliveries.Buckets[product.ID] {
		summary.Delivered.ByCountry[code] = bucket.DeliveredQty
	}

	if scope.CountryRestricted() {
		for code := range summary.StockLeft.ByCountry {
			if !scope.AllowsCountry(code) {
				summary.StockLeft.ByCountry[code] = 0
			}
		}
		for code := range summary.Delivered.ByCountry {
			if !scope.AllowsCountry(code) {
				summary.Delivered.ByCountry[code] = 0
			}
		}
	}
	summary.StockLeft.Total = sumQuantities(summary.StockLeft.ByCountry)
	summary.Delivered.Total = sumQuantities(summary.Delivered.ByCountry)

	stockLeft := decimal.NewFromInt(int64(summary.StockLeft.Total))
	if summary.TotalBought > 0 {
		// 进价按剩余占比折算
		share := product.PurchasePrice.Decimal.Mul(stockLeft).Div(decimal.NewFromInt(int64(summary.TotalBought)))
		summary.StockValue = models.NewMoneyFromDecimal(share)
	} else {
		summary.StockValue = models.NewMoneyFromDecimal(decimal.Zero)
	}
	summary.PotentialRevenue = models.NewMoneyFromDecimal(product.Price.Decimal.Mul(stockLeft))

	byCurrency := make(map[string]decimal.Decimal)
	revenue := decimal.Zero
	for key, amount := range deliveries.Revenue[product.ID] {
		if !scope.AllowsCountry(key.Country) {
			continue
		}
		byCurrency[key.Currency] = byCurrency[key.Currency].Add(amount)
		revenue = revenue.Add(amount)
	}
	for currency, amount := range byCurrency {
		summary.DeliveredRevenueByCurrency[currency] = models.NewMoneyFromDecimal(amount)
	}
	summary.DeliveredRevenue = models.NewMoneyFromDecimal(revenue)
	return summary
}

func sumQuantities(values map[string]int) int {
	total := 0
	for _, qty := range values {
		total += qty
	}
	return total
}

func sortSummaries(rows []ProductSummary) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProductID < rows[j].ProductID
	})
}
