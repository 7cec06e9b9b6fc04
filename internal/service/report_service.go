package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/makpal80/avtoray/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reportDateLayout = "2006-01-02"

type ReportService struct {
	orders repository.OrderRepo
	users  repository.UserRepo
	writer ReportWriter
	log    *zap.Logger
	now    func() time.Time
}

func NewReportService(orders repository.OrderRepo, users repository.UserRepo, writer ReportWriter, log *zap.Logger) *ReportService {
	return &ReportService{orders: orders, users: users, writer: writer, log: log, now: time.Now}
}

// ParseDateRange turns inclusive YYYY-MM-DD bounds into a half-open interval.
// An empty bound defaults to today for "to" and 30 days before "to" for "from".
func ParseDateRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if s := strings.TrimSpace(to); s != "" {
		t, err := time.ParseInLocation(reportDateLayout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_to", ErrInvalidDateRange)
		}
		end = t
	}
	start := end.AddDate(0, 0, -30)
	if s := strings.TrimSpace(from); s != "" {
		t, err := time.ParseInLocation(reportDateLayout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_from", ErrInvalidDateRange)
		}
		start = t
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end.AddDate(0, 0, 1), nil
}

// OrdersReport writes all orders created within [from, to] as an xlsx workbook.
func (s *ReportService) OrdersReport(ctx context.Context, w io.Writer, from, to string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	start, end, err := ParseDateRange(from, to, s.now())
	if err != nil {
		return err
	}
	list, err := s.orders.ListForReport(ctx, repository.OrderReportFilter{From: start, To: end})
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Заказы %s - %s", start.Format(reportDateLayout), end.AddDate(0, 0, -1).Format(reportDateLayout))
	s.log.Info("orders report", zap.Int("orders", len(list)), zap.String("title", title))
	return s.writer.WriteOrders(w, title, list)
}

// ClientReport is OrdersReport restricted to a single customer.
func (s *ReportService) ClientReport(ctx context.Context, w io.Writer, userID uuid.UUID, from, to string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	start, end, err := ParseDateRange(from, to, s.now())
	if err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	list, err := s.orders.ListForReport(ctx, repository.OrderReportFilter{UserID: &userID, From: start, To: end})
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s (%s)", u.Name, u.Phone)
	return s.writer.WriteOrders(w, title, list)
}
