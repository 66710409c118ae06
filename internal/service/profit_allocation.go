package service

import (
	"github.com/souq-next/internal/models"

	"github.com/shopspring/decimal"
)

// dropshipUnitPrice 代发单价，未设置时回退为销售单价
func dropshipUnitPrice(product *models.Product) decimal.Decimal {
	if product.DropshippingPrice.IsPositive() {
		return product.DropshippingPrice.Decimal
	}
	return product.Price.Decimal
}

// allocateDropshipperProfit 计算订单代发利润
// 锚定行（代发单价最高，并列取先出现者）按代发价计 1 件、其余按采购价；其他行全部按采购价。
// 返回 false 表示订单行引用了未知商品。
func allocateDropshipperProfit(lines []lineItem, total decimal.Decimal, products map[uint]*models.Product) (decimal.Decimal, bool) {
	if len(lines) == 0 {
		return decimal.Zero, false
	}
	anchor := -1
	var anchorPrice decimal.Decimal
	for i, line := range lines {
		product, ok := products[line.ProductID]
		if !ok || product == nil {
			return decimal.Zero, false
		}
		price := dropshipUnitPrice(product)
		if anchor < 0 || price.GreaterThan(anchorPrice) {
			anchor = i
			anchorPrice = price
		}
	}

	cost := decimal.Zero
	for i, line := range lines {
		product := products[line.ProductID]
		purchase := product.PurchasePrice.Decimal
		qty := decimal.NewFromInt(int64(line.Quantity))
		if i == anchor {
			cost = cost.Add(anchorPrice).Add(purchase.Mul(qty.Sub(decimal.NewFromInt(1))))
			continue
		}
		cost = cost.Add(purchase.Mul(qty))
	}

	profit := total.Sub(cost)
	if profit.IsNegative() {
		profit = decimal.Zero
	}
	return profit.Round(2), true
}
