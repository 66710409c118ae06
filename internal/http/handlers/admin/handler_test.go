package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/provider"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type handlerTestEnv struct {
	container *provider.Container
	handler   *Handler
	product   *models.Product
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:admin_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	c := provider.NewContainerWithDB(&config.Config{}, db)
	product := &models.Product{
		OwnerID:           10,
		Name:              "Oud Oil",
		Price:             models.NewMoney("120"),
		DropshippingPrice: models.NewMoney("90"),
		PurchasePrice:     models.NewMoney("60"),
		CountryStocks:     []models.ProductCountryStock{{Country: "UAE", Quantity: 6}},
	}
	if err := c.ProductRepo.Create(context.Background(), product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	productID := product.ID
	orders := []models.Order{
		{OrderNo: "H-1", CreatedBy: 10, OrderCountry: "UAE", ShipmentStatus: constants.ShipmentStatusDelivered, ProductID: &productID, Quantity: 1, Total: models.NewMoney("120"), DropshipperProfitAmount: models.NewMoney("30"), DropshipperProfitIsPaid: true},
		{OrderNo: "H-2", CreatedBy: 10, OrderCountry: "UAE", ShipmentStatus: constants.ShipmentStatusDelivered, ProductID: &productID, Quantity: 1, Total: models.NewMoney("120"), DropshipperProfitAmount: models.NewMoney("25")},
		{OrderNo: "H-3", CreatedBy: 20, OrderCountry: "UAE", ShipmentStatus: constants.ShipmentStatusDelivered, ProductID: &productID, Quantity: 1, Total: models.NewMoney("120"), DropshipperProfitAmount: models.NewMoney("99")},
	}
	for i := range orders {
		if err := c.OrderRepo.Create(context.Background(), &orders[i]); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	return &handlerTestEnv{container: c, handler: New(c), product: product}
}

// engine 注入固定调用方范围，跳过令牌鉴权
func (e *handlerTestEnv) engine(scope *service.Scope) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		handlershared.SetCallerScope(c, scope)
		c.Next()
	})
	r.GET("/inventory/summary", e.handler.GetWarehouseSummary)
	r.GET("/inventory/products/:id/history", e.handler.GetStockHistory)
	r.POST("/inventory/products/:id/stock", e.handler.AddStock)
	r.GET("/finance/orders", e.handler.ListFinanceOrders)
	r.POST("/admin/finance/reconcile", e.handler.TriggerProfitReconcile)
	r.GET("/admin/finance/reconcile/latest", e.handler.GetLatestReconcileRun)
	return r
}

type testResponse struct {
	StatusCode int                 `json:"status_code"`
	Msg        string              `json:"msg"`
	Data       json.RawMessage     `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

func serve(t *testing.T, r http.Handler, method, path, body string) testResponse {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp testResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp
}

func sellerScope() *service.Scope {
	return &service.Scope{UserID: 10, Role: constants.RoleSeller, CreatorIDs: []uint{10}}
}

func TestAddStockValidation(t *testing.T) {
	env := newHandlerTestEnv(t)
	r := env.engine(sellerScope())
	path := fmt.Sprintf("/inventory/products/%d/stock", env.product.ID)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{name: "invalid id", path: "/inventory/products/abc/stock", body: `{"country":"UAE","quantity":1}`, want: response.CodeBadRequest},
		{name: "zero quantity", path: path, body: `{"country":"UAE","quantity":0}`, want: response.CodeBadRequest},
		{name: "negative quantity", path: path, body: `{"country":"UAE","quantity":-3}`, want: response.CodeBadRequest},
		{name: "missing country", path: path, body: `{"country":"  ","quantity":2}`, want: response.CodeBadRequest},
		{name: "malformed body", path: path, body: `{"country":`, want: response.CodeBadRequest},
		{name: "unknown product", path: "/inventory/products/999/stock", body: `{"country":"UAE","quantity":2}`, want: response.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(t, r, http.MethodPost, tc.path, tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("status_code want %d got %d msg=%s", tc.want, resp.StatusCode, resp.Msg)
			}
		})
	}

	other := env.engine(&service.Scope{UserID: 20, Role: constants.RoleSeller, CreatorIDs: []uint{20}})
	resp := serve(t, other, http.MethodPost, path, `{"country":"UAE","quantity":2}`)
	if resp.StatusCode != response.CodeForbidden {
		t.Fatalf("foreign seller want 403 got %d", resp.StatusCode)
	}
}

func TestAddStockSuccessKeepsBaseline(t *testing.T) {
	env := newHandlerTestEnv(t)
	r := env.engine(sellerScope())
	path := fmt.Sprintf("/inventory/products/%d/stock", env.product.ID)

	resp := serve(t, r, http.MethodPost, path, `{"country":"Oman","quantity":4,"notes":"first"}`)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("add stock want 200 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var view service.StockView
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("unmarshal view failed: %v", err)
	}
	if view.StockQty != 10 || view.StockByCountry["Oman"] != 4 || view.StockByCountry["UAE"] != 6 {
		t.Fatalf("unexpected stock view: %+v", view)
	}
	// 首次入库以原库存作基线
	if view.TotalPurchased != 10 {
		t.Fatalf("total purchased want 10 got %d", view.TotalPurchased)
	}

	resp = serve(t, r, http.MethodGet, fmt.Sprintf("/inventory/products/%d/history", env.product.ID), "")
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("history want 200 got %d", resp.StatusCode)
	}
	var entries []models.ProductStockEntry
	if err := json.Unmarshal(resp.Data, &entries); err != nil {
		t.Fatalf("unmarshal history failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Country != "Oman" || entries[0].Note != "first" || entries[0].AddedBy != 10 {
		t.Fatalf("unexpected history: %+v", entries)
	}
}

func TestWarehouseSummaryHandler(t *testing.T) {
	env := newHandlerTestEnv(t)

	resp := serve(t, env.engine(sellerScope()), http.MethodGet, "/inventory/summary?search=oud", "")
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("summary want 200 got %d", resp.StatusCode)
	}
	var rows []service.ProductSummary
	if err := json.Unmarshal(resp.Data, &rows); err != nil {
		t.Fatalf("unmarshal summary failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("summary rows want 1 got %d", len(rows))
	}
	// 只统计本工作区创建的订单
	if rows[0].StockLeft.ByCountry["UAE"] != 4 || rows[0].Delivered.Total != 2 {
		t.Fatalf("unexpected summary: %+v", rows[0])
	}

	resp = serve(t, env.engine(sellerScope()), http.MethodGet, "/inventory/summary?search=nothing", "")
	if resp.StatusCode != response.CodeOK || string(resp.Data) != "[]" {
		t.Fatalf("empty search should return [], got %d %s", resp.StatusCode, string(resp.Data))
	}
}

func TestListFinanceOrdersHandler(t *testing.T) {
	env := newHandlerTestEnv(t)
	r := env.engine(sellerScope())

	resp := serve(t, r, http.MethodGet, "/finance/orders?page=1&page_size=1", "")
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("finance want 200 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var data FinanceListResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal finance failed: %v", err)
	}
	if resp.Pagination.Total != 2 || resp.Pagination.TotalPage != 2 || len(data.Rows) != 1 {
		t.Fatalf("unexpected pagination: %+v rows=%d", resp.Pagination, len(data.Rows))
	}
	if data.Totals.TotalAmount.StringFixed(2) != "55.00" ||
		data.Totals.PaidAmount.StringFixed(2) != "30.00" ||
		data.Totals.UnpaidAmount.StringFixed(2) != "25.00" {
		t.Fatalf("unexpected totals: %+v", data.Totals)
	}

	resp = serve(t, r, http.MethodGet, "/finance/orders?is_paid=true", "")
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal finance failed: %v", err)
	}
	if len(data.Rows) != 1 || data.Rows[0].OrderNo != "H-1" {
		t.Fatalf("is_paid filter unexpected rows: %+v", data.Rows)
	}
	if data.Totals.TotalAmount.StringFixed(2) != "55.00" {
		t.Fatalf("totals should ignore is_paid filter, got %s", data.Totals.TotalAmount.StringFixed(2))
	}

	resp = serve(t, r, http.MethodGet, "/finance/orders?page=abc", "")
	if resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("non numeric page want 400 got %d", resp.StatusCode)
	}
}

func TestTriggerProfitReconcileInline(t *testing.T) {
	env := newHandlerTestEnv(t)
	admin := &service.Scope{UserID: 1, Role: constants.RoleAdmin, Unrestricted: true}
	r := env.engine(admin)

	resp := serve(t, r, http.MethodGet, "/admin/finance/reconcile/latest", "")
	if resp.StatusCode != response.CodeNotFound {
		t.Fatalf("latest before run want 404 got %d", resp.StatusCode)
	}

	resp = serve(t, r, http.MethodPost, "/admin/finance/reconcile", "")
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("reconcile want 200 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var trigger ReconcileTriggerResponse
	if err := json.Unmarshal(resp.Data, &trigger); err != nil {
		t.Fatalf("unmarshal trigger failed: %v", err)
	}
	if trigger.Mode != "inline" || trigger.Result == nil || trigger.Result.Scanned != 0 {
		t.Fatalf("every order already has profit, got %+v", trigger.Result)
	}

	resp = serve(t, r, http.MethodGet, "/admin/finance/reconcile/latest", "")
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("latest after run want 200 got %d", resp.StatusCode)
	}
}

func TestHandlersRequireScope(t *testing.T) {
	env := newHandlerTestEnv(t)
	r := gin.New()
	r.GET("/inventory/summary", env.handler.GetWarehouseSummary)

	resp := serve(t, r, http.MethodGet, "/inventory/summary", "")
	if resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("missing scope want 401 got %d", resp.StatusCode)
	}
}
