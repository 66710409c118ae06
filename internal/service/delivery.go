package service

import (
	"strings"

	"github.com/souq-next/internal/country"
	"github.com/souq-next/internal/models"

	"github.com/shopspring/decimal"
)

// DeliveredBucket 单个国家的签收汇总
type DeliveredBucket struct {
	DeliveredQty  int
	TotalAmount   decimal.Decimal
	TotalDiscount decimal.Decimal
}

// CountryCurrency 国家+币种组合键
type CountryCurrency struct {
	Country  string
	Currency string
}

// DeliveryAggregate 签收聚合结果
type DeliveryAggregate struct {
	Buckets map[uint]map[string]*DeliveredBucket
	Revenue map[uint]map[CountryCurrency]decimal.Decimal
}

// resolveOrderCurrency 订单币种，缺失时取国家默认币种
func resolveOrderCurrency(order models.Order, code string) string {
	if currency := strings.ToUpper(strings.TrimSpace(order.Currency)); currency != "" {
		return currency
	}
	return country.Currency(code)
}

// aggregateDeliveries 汇总已签收订单
// 订单级金额整体计入每个命中的订单行。
func aggregateDeliveries(orders []models.Order, targets map[uint]struct{}) DeliveryAggregate {
	result := DeliveryAggregate{
		Buckets: make(map[uint]map[string]*DeliveredBucket),
		Revenue: make(map[uint]map[CountryCurrency]decimal.Decimal),
	}
	for _, order := range orders {
		code := country.Normalize(order.OrderCountry)
		key := CountryCurrency{Country: code, Currency: resolveOrderCurrency(order, code)}
		for _, line := range unifyOrderItems(order) {
			if _, ok := targets[line.ProductID]; !ok {
				continue
			}
			byCountry, ok := result.Buckets[line.ProductID]
			if !ok {
				byCountry = make(map[string]*DeliveredBucket)
				result.Buckets[line.ProductID] = byCountry
			}
			bucket, ok := byCountry[code]
			if !ok {
				bucket = &DeliveredBucket{TotalAmount: decimal.Zero, TotalDiscount: decimal.Zero}
				byCountry[code] = bucket
			}
			bucket.DeliveredQty += line.Quantity
			bucket.TotalAmount = bucket.TotalAmount.Add(order.Total.Decimal)
			bucket.TotalDiscount = bucket.TotalDiscount.Add(order.Discount.Decimal)

			revenue, ok := result.Revenue[line.ProductID]
			if !ok {
				revenue = make(map[CountryCurrency]decimal.Decimal)
				result.Revenue[line.ProductID] = revenue
			}
			revenue[key] = revenue[key].Add(order.Total.Decimal)
		}
	}
	return result
}
