package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ims/internal/dto"
	"ims/internal/model"
	"ims/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────
// DB() returns nil so runTx calls straight through without a transaction.

type stubProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
	// history is wired so DeleteTx can drop the product's rows like the FK does.
	history *stubHistoryRepo
}

func newStubProductRepo(history *stubHistoryRepo) *stubProductRepo {
	return &stubProductRepo{products: make(map[uint]*model.Product), history: history}
}

func (r *stubProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *stubProductRepo) ListBelow(ctx context.Context, threshold int) ([]model.Product, error) {
	all, _ := r.List(ctx)
	var out []model.Product
	for _, p := range all {
		if p.Quantity < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.nextID++
	p.ProductID = r.nextID
	cp := *p
	r.products[p.ProductID] = &cp
	return nil
}

func (r *stubProductRepo) UpdateTx(_ *gorm.DB, p *model.Product) error {
	if _, ok := r.products[p.ProductID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.products[p.ProductID] = &cp
	return nil
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uint) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) SetQuantityTx(_ *gorm.DB, id uint, quantity int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id uint) error {
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	if r.history != nil {
		r.history.dropProduct(id)
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

type stubHistoryRepo struct {
	entries []model.InventoryHistoryEntry
}

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, e *model.InventoryHistoryEntry) error {
	e.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *e)
	return nil
}

// List returns newest first, matching the ORDER BY of the real repository.
func (r *stubHistoryRepo) List(_ context.Context, f repository.InventoryHistoryFilter) ([]model.InventoryHistoryEntry, int64, error) {
	var out []model.InventoryHistoryEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ProductID == f.ProductID {
			out = append(out, r.entries[i])
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubHistoryRepo) forProduct(id uint) []model.InventoryHistoryEntry {
	var out []model.InventoryHistoryEntry
	for _, e := range r.entries {
		if e.ProductID == id {
			out = append(out, e)
		}
	}
	return out
}

func (r *stubHistoryRepo) dropProduct(id uint) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.ProductID != id {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

type stubSalesRepo struct {
	entries []model.SalesHistoryEntry
}

func (r *stubSalesRepo) Create(_ context.Context, e *model.SalesHistoryEntry) error {
	return r.CreateTx(nil, e)
}

func (r *stubSalesRepo) CreateTx(_ *gorm.DB, e *model.SalesHistoryEntry) error {
	e.OrderID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubSalesRepo) List(_ context.Context, f repository.SalesHistoryFilter) ([]model.SalesHistoryEntry, int64, error) {
	var out []model.SalesHistoryEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.ProductName != "" && !strings.Contains(strings.ToLower(e.ProductName), strings.ToLower(f.ProductName)) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubSalesRepo) SumQuantityByProduct(_ context.Context, status string) ([]repository.LabelValue, error) {
	return r.sum(status, func(e model.SalesHistoryEntry) decimal.Decimal { return decimal.NewFromInt(int64(e.Quantity)) }), nil
}

func (r *stubSalesRepo) SumTotalByProduct(_ context.Context, status string) ([]repository.LabelValue, error) {
	return r.sum(status, func(e model.SalesHistoryEntry) decimal.Decimal { return e.Total }), nil
}

func (r *stubSalesRepo) sum(status string, value func(model.SalesHistoryEntry) decimal.Decimal) []repository.LabelValue {
	totals := map[string]decimal.Decimal{}
	for _, e := range r.entries {
		if e.Status == status {
			totals[e.ProductName] = totals[e.ProductName].Add(value(e))
		}
	}
	out := make([]repository.LabelValue, 0, len(totals))
	for name, v := range totals {
		out = append(out, repository.LabelValue{Label: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func (r *stubSalesRepo) withStatus(status string) []model.SalesHistoryEntry {
	var out []model.SalesHistoryEntry
	for _, e := range r.entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

type stubSupplierRepo struct {
	suppliers map[uint]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uint]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	for _, existing := range r.suppliers {
		if existing.Name == s.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	s.SupplierID = uint(len(r.suppliers) + 1)
	r.suppliers[s.SupplierID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uint) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	return out, nil
}

type stubUserRepo struct {
	users map[string]*model.User
	// createErr, when set, is returned by Create to simulate a constraint hit.
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	u.UserID = uint(len(r.users) + 1)
	r.users[u.Username] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	for _, u := range r.users {
		if u.UserID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ── Notification stubs ───────────────────────────────────────────────────────

type recordingNotifier struct {
	mu     sync.Mutex
	events []dto.ChangeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, evt dto.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Kind
	}
	return out
}

type recordingAlerter struct {
	alerts []dto.LowStockAlert
	err    error
}

func (a *recordingAlerter) EnqueueLowStockAlert(_ context.Context, alert dto.LowStockAlert) error {
	a.alerts = append(a.alerts, alert)
	return a.err
}
