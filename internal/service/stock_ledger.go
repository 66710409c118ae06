package service

import (
	"github.com/souq-next/internal/country"
	"github.com/souq-next/internal/models"
)

// InitialStockByCountry 计算入库基线（各国累计采购量）
// 有流水时按流水求和；无流水时回退为库存快照。
func InitialStockByCountry(history []models.ProductStockEntry, snapshot []models.ProductCountryStock) map[string]int {
	result := make(map[string]int)
	if len(history) > 0 {
		for _, entry := range history {
			result[country.Normalize(entry.Country)] += entry.Quantity
		}
		return result
	}
	for _, row := range snapshot {
		result[country.Normalize(row.Country)] += row.Quantity
	}
	return result
}
