package service

import (
	"github.com/souq-next/internal/country"
	"github.com/souq-next/internal/models"
)

// ReservationMap 商品 -> 国家 -> 占用数量
type ReservationMap map[uint]map[string]int

// Get 读取占用数量，缺失为 0
func (m ReservationMap) Get(productID uint, code string) int {
	if byCountry, ok := m[productID]; ok {
		return byCountry[code]
	}
	return 0
}

// aggregateReservations 汇总仍占用库存订单的数量
// 订单的生命周期过滤已在查询中完成，这里只做行展开与归集。
func aggregateReservations(orders []models.Order, targets map[uint]struct{}) ReservationMap {
	result := make(ReservationMap)
	for _, order := range orders {
		code := country.Normalize(order.OrderCountry)
		for _, line := range unifyOrderItems(order) {
			if _, ok := targets[line.ProductID]; !ok {
				continue
			}
			byCountry, ok := result[line.ProductID]
			if !ok {
				byCountry = make(map[string]int)
				result[line.ProductID] = byCountry
			}
			byCountry[code] += line.Quantity
		}
	}
	return result
}
