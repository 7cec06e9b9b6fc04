package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/repository"

	"github.com/google/uuid"
)

// memStore: потокобезопасное хранилище в памяти для тестов сервисов.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	products map[uuid.UUID]*models.Product
	orders   map[uuid.UUID]*models.Order
	lines    map[uuid.UUID][]models.OrderLine
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*models.User{},
		products: map[uuid.UUID]*models.Product{},
		orders:   map[uuid.UUID]*models.Order{},
		lines:    map[uuid.UUID][]models.OrderLine{},
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Users:      memUsers{s},
		Products:   memProducts{s},
		Variants:   memVariants{s},
		Orders:     memOrders{s},
		OrderLines: memLines{s},
	}
}

func (s *memStore) addUser(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = &u
	cp := u
	return &cp
}

func (s *memStore) addProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variants {
		if p.Variants[i].ID == uuid.Nil {
			p.Variants[i].ID = uuid.New()
		}
		p.Variants[i].ProductID = p.ID
	}
	s.products[p.ID] = &p
	return cloneProduct(&p)
}

func (s *memStore) user(id uuid.UUID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func cloneProduct(p *models.Product) models.Product {
	cp := *p
	cp.Variants = append([]models.ProductVariant(nil), p.Variants...)
	return cp
}

// должна вызываться под s.mu
func (s *memStore) loadOrder(id uuid.UUID) *models.Order {
	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	cp := *o
	cp.Lines = append([]models.OrderLine(nil), s.lines[id]...)
	if u, ok := s.users[o.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp
}

// users

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if x.Phone == u.Phone {
			return errors.New("duplicate phone")
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r memUsers) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memUsers) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	u, err := r.GetByPhone(ctx, phone)
	return u != nil, err
}

func (r memUsers) IncrementOrdersCount(_ context.Context, id uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return 0, errors.New("record not found")
	}
	u.OrdersCount++
	return u.OrdersCount, nil
}

func (r memUsers) UpdateDiscount(_ context.Context, id uuid.UUID, percent int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.DiscountPercent = percent
	return true, nil
}

// products

type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := cloneProduct(p)
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(int64)
		case "discount_percent":
			p.DiscountPercent = v.(int)
		case "active":
			p.Active = v.(bool)
		case "updated_at":
			p.UpdatedAt = v.(time.Time)
		}
	}
	return true, nil
}

func (r memProducts) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := cloneProduct(p)
	return &cp, nil
}

func (r memProducts) List(_ context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, p := range r.s.products {
		if f.OnlyActive && !p.Active {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r memProducts) BatchGetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

// variants

type memVariants struct{ s *memStore }

func (r memVariants) Create(_ context.Context, v *models.ProductVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[v.ProductID]
	if !ok {
		return errors.New("foreign key violation")
	}
	p.Variants = append(p.Variants, *v)
	return nil
}

func (r memVariants) GetByID(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if v := p.Variant(id); v != nil {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memVariants) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		for i := range p.Variants {
			if p.Variants[i].ID == id {
				p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (r memVariants) ListImageURLs(context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, p := range r.s.products {
		for _, v := range p.Variants {
			if v.ImageURL != "" {
				out = append(out, v.ImageURL)
			}
		}
	}
	return out, nil
}

// orders

type memOrders struct{ s *memStore }

func (r memOrders) Create(_ context.Context, o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.s.seq++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Unix(int64(r.s.seq), 0)
	}
	cp := *o
	cp.Lines, cp.User = nil, nil
	r.s.orders[o.ID] = &cp
	return nil
}

func (r memOrders) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.loadOrder(id), nil
}

func (r memOrders) GetByIDForUser(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o := r.s.loadOrder(id)
	if o == nil || o.UserID != userID {
		return nil, nil
	}
	return o, nil
}

func (r memOrders) TransitionStatus(_ context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r memOrders) NextUserOrderNumber(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	max := 0
	for _, o := range r.s.orders {
		if o.UserID == userID && o.UserOrderNumber > max {
			max = o.UserOrderNumber
		}
	}
	return max + 1, nil
}

func (r memOrders) List(_ context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*models.Order
	for id, o := range r.s.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		full := r.s.loadOrder(id)
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			u := full.User
			if u == nil || !(strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(u.Phone, q)) {
				continue
			}
		}
		all = append(all, full)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}

func (r memOrders) CountByStatus(_ context.Context) (map[models.OrderStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[models.OrderStatus]int64{
		models.OrderStatusPending:  0,
		models.OrderStatusApproved: 0,
		models.OrderStatusRejected: 0,
	}
	for _, o := range r.s.orders {
		out[o.Status]++
	}
	return out, nil
}

func (r memOrders) ListForReport(_ context.Context, f repository.OrderReportFilter) ([]*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Order
	for id, o := range r.s.orders {
		if o.CreatedAt.Before(f.From) || !o.CreatedAt.Before(f.To) {
			continue
		}
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		out = append(out, r.s.loadOrder(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memOrders) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.orders[id]
	return ok, nil
}

// order lines

type memLines struct{ s *memStore }

func (r memLines) BulkCreate(_ context.Context, lines []models.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range lines {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		r.s.lines[l.OrderID] = append(r.s.lines[l.OrderID], l)
	}
	return nil
}

func (r memLines) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.OrderLine(nil), r.s.lines[orderID]...), nil
}

func (r memLines) SumByOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, l := range r.s.lines[orderID] {
		sum += l.LineTotal
	}
	return sum, nil
}
