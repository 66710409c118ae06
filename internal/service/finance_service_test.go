package service

import (
	"context"
	"testing"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"
)

func TestFinanceListTotalsAndReconcileMarker(t *testing.T) {
	env := newServiceTestEnv(t, "finance_list")
	seedProfitScenario(t, env)
	env.createOrder(t, models.Order{CreatedBy: 1, OrderCountry: "oman", ShipmentStatus: constants.ShipmentStatusDelivered, Total: models.NewMoney("20"), DropshipperProfitAmount: models.NewMoney("4"), DropshipperProfitIsPaid: true})
	reconciler := NewProfitReconcileService(env.orderRepo, env.productRepo, env.runRepo, nil, ProfitReconcileOptions{})
	ctx := context.Background()

	svc := NewFinanceService(env.orderRepo, env.runRepo, reconciler, false)
	result, err := svc.List(ctx, sellerScope(1), FinanceListInput{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.LastReconciledAt != nil {
		t.Fatalf("no run yet, last reconciled should be nil")
	}
	if result.Total != 5 || result.Totals.TotalAmount.String() != "9.00" {
		t.Fatalf("before reconcile want 5 rows and 9.00 total, got %d %s", result.Total, result.Totals.TotalAmount)
	}

	onRead := NewFinanceService(env.orderRepo, env.runRepo, reconciler, true)
	result, err = onRead.List(ctx, sellerScope(1), FinanceListInput{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list with reconcile failed: %v", err)
	}
	if result.LastReconciledAt == nil {
		t.Fatalf("last reconciled should be set after reconcile on read")
	}
	// 60 + 30 + 5 + 4
	if result.Totals.TotalAmount.String() != "99.00" || result.Totals.PaidAmount.String() != "4.00" || result.Totals.UnpaidAmount.String() != "95.00" {
		t.Fatalf("unexpected totals: %+v", result.Totals)
	}

	paid := true
	result, err = svc.List(ctx, sellerScope(1), FinanceListInput{Page: 1, PageSize: 20, IsPaid: &paid})
	if err != nil {
		t.Fatalf("paid filter failed: %v", err)
	}
	if result.Total != 1 || len(result.Rows) != 1 || result.Rows[0].Country != "Oman" || result.Rows[0].Currency != "OMR" {
		t.Fatalf("paid filter unexpected: %+v", result.Rows)
	}
	if result.Totals.TotalAmount.String() != "99.00" {
		t.Fatalf("totals should ignore the paid filter, got %s", result.Totals.TotalAmount)
	}
}

func TestFinanceListRejectsNegativePagination(t *testing.T) {
	env := newServiceTestEnv(t, "finance_pagination")
	svc := NewFinanceService(env.orderRepo, env.runRepo, nil, false)
	if _, err := svc.List(context.Background(), adminScope(), FinanceListInput{Page: -1}); err != ErrInvalidPagination {
		t.Fatalf("want ErrInvalidPagination got %v", err)
	}
}
