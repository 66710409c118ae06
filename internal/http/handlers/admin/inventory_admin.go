package admin

import (
	"strings"

	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/i18n"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddStockRequest 入库请求
type AddStockRequest struct {
	Country  string `json:"country"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// GetWarehouseSummary 仓库汇总
func (h *Handler) GetWarehouseSummary(c *gin.Context) {
	scope, ok := getCallerScope(c)
	if !ok {
		return
	}
	rows, err := h.WarehouseService.Summary(c.Request.Context(), scope, strings.TrimSpace(c.Query("search")))
	if err != nil {
		respondServiceError(c, err, "error.inventory_fetch")
		return
	}
	response.Success(c, rows)
}

// AddStock 按国家入库
func (h *Handler) AddStock(c *gin.Context) {
	scope, ok := getCallerScope(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	view, err := h.WarehouseService.AddStock(c.Request.Context(), scope, service.AddStockInput{
		ProductID: productID,
		Country:   req.Country,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err, "error.stock_add_failed")
		return
	}
	requestLog(c).Infow("inventory_stock_added",
		"product_id", productID,
		"caller_id", scope.UserID,
		"quantity", req.Quantity,
		"stock_qty", view.StockQty,
	)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "stock.added"), view)
}

// GetStockHistory 入库流水
func (h *Handler) GetStockHistory(c *gin.Context) {
	scope, ok := getCallerScope(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	entries, err := h.WarehouseService.History(c.Request.Context(), scope, productID)
	if err != nil {
		respondServiceError(c, err, "error.history_fetch")
		return
	}
	response.Success(c, entries)
}
