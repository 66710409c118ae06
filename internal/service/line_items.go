package service

import "github.com/souq-next/internal/models"

// lineItem 统一后的订单行
type lineItem struct {
	ProductID uint
	Quantity  int
}

// unifyOrderItems 将旧版单品订单与多行订单统一为订单行列表
// 数量非正时按 1 计；商品 ID 为 0 的行被丢弃。
func unifyOrderItems(order models.Order) []lineItem {
	if len(order.Items) > 0 {
		lines := make([]lineItem, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ProductID == 0 {
				continue
			}
			lines = append(lines, lineItem{ProductID: item.ProductID, Quantity: normalizeLineQuantity(item.Quantity)})
		}
		return lines
	}
	if order.ProductID == nil || *order.ProductID == 0 {
		return nil
	}
	return []lineItem{{ProductID: *order.ProductID, Quantity: normalizeLineQuantity(order.Quantity)}}
}

func normalizeLineQuantity(quantity int) int {
	if quantity <= 0 {
		return 1
	}
	return quantity
}
