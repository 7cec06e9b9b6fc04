package service_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MockReportWriter struct {
	Title  string
	Orders []*models.Order
}

func (m *MockReportWriter) WriteOrders(w io.Writer, title string, orders []*models.Order) error {
	m.Title, m.Orders = title, orders
	_, err := w.Write([]byte("xlsx"))
	return err
}

func TestParseDateRange(t *testing.T) {
	now := time.Date(2026, 3, 15, 13, 0, 0, 0, time.UTC)

	from, to, err := service.ParseDateRange("2026-03-01", "2026-03-10", now)
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if !from.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("range = %s .. %s", from, to)
	}

	from, to, err = service.ParseDateRange("", "", now)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if !to.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) || !from.Equal(time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("default range = %s .. %s", from, to)
	}

	if _, _, err := service.ParseDateRange("2026-03-10", "2026-03-01", now); !errors.Is(err, service.ErrInvalidDateRange) {
		t.Fatalf("reversed err = %v", err)
	}
	if _, _, err := service.ParseDateRange("10.03.2026", "", now); !errors.Is(err, service.ErrInvalidDateRange) {
		t.Fatalf("bad format err = %v", err)
	}
}

func TestReports(t *testing.T) {
	f := newOrderFixture(t, nil)
	f.submit(t, models.PaymentCash, service.OrderItemInput{ProductID: f.filter.ID, Quantity: 1})
	other := f.store.addUser(models.User{Phone: "77020000000", Name: "Берик"})

	writer := &MockReportWriter{}
	repo := f.store.repository()
	svc := service.NewReportService(repo.Orders, repo.Users, writer, zap.NewNop())
	today := time.Now().Format("2006-01-02")

	var buf bytes.Buffer
	if err := svc.OrdersReport(adminCtx(), &buf, today, today); err != nil {
		t.Fatalf("OrdersReport: %v", err)
	}
	if len(writer.Orders) != 1 || buf.String() != "xlsx" {
		t.Fatalf("orders = %d body = %q", len(writer.Orders), buf.String())
	}

	if err := svc.ClientReport(adminCtx(), &buf, other.ID, "", ""); err != nil {
		t.Fatalf("ClientReport: %v", err)
	}
	if len(writer.Orders) != 0 {
		t.Fatalf("client orders = %d", len(writer.Orders))
	}

	if err := svc.ClientReport(adminCtx(), &buf, uuid.New(), "", ""); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("unknown client err = %v", err)
	}
	if err := svc.OrdersReport(customerCtx(f.user.ID), &buf, "", ""); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("customer report err = %v", err)
	}
}
