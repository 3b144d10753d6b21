package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ims/internal/dto"
	"ims/internal/model"
	"ims/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultLowStockThreshold = 10
	DefaultRestockQuantity   = 10
)

// InventoryService defines the contract for product CRUD and stock tracking.
type InventoryService interface {
	LoadAll(ctx context.Context) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id uint) (*dto.ProductResponse, error)
	Add(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uint, req dto.ProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
	Sell(ctx context.Context, id uint, quantity int) (*dto.SaleResult, error)
	CheckLowStock(ctx context.Context) ([]dto.LowStockAlert, error)
	History(ctx context.Context, id uint, filter dto.HistoryFilter) (*dto.InventoryHistoryListResponse, error)
}

// InventoryOptions tunes the stock rules. Zero values fall back to defaults.
type InventoryOptions struct {
	LowStockThreshold int
	RestockQuantity   int
	Notifier          Notifier
	Alerter           LowStockAlerter
	Now               func() time.Time
}

type inventoryService struct {
	products  repository.ProductRepository
	history   repository.InventoryHistoryRepository
	sales     repository.SalesHistoryRepository
	suppliers repository.SupplierRepository

	threshold  int
	restockQty int
	notifier   Notifier
	alerter    LowStockAlerter
	now        func() time.Time
}

func NewInventoryService(
	products repository.ProductRepository,
	history repository.InventoryHistoryRepository,
	sales repository.SalesHistoryRepository,
	suppliers repository.SupplierRepository,
	opts InventoryOptions,
) InventoryService {
	s := &inventoryService{
		products:   products,
		history:    history,
		sales:      sales,
		suppliers:  suppliers,
		threshold:  opts.LowStockThreshold,
		restockQty: opts.RestockQuantity,
		notifier:   opts.Notifier,
		alerter:    opts.Alerter,
		now:        opts.Now,
	}
	if s.threshold <= 0 {
		s.threshold = DefaultLowStockThreshold
	}
	if s.restockQty <= 0 {
		s.restockQty = DefaultRestockQuantity
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *inventoryService) LoadAll(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = s.toResponse(&products[i])
	}
	return resp, nil
}

func (s *inventoryService) Get(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	resp := s.toResponse(p)
	return &resp, nil
}

// ── Add / Update / Delete ────────────────────────────────────────────────────
// Each mutation and its history row share one transaction; events go out
// only after commit.

func (s *inventoryService) Add(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		SupplierID:  req.SupplierID,
	}
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.CreateTx(tx, p); err != nil {
			return err
		}
		return s.logChange(tx, p.ProductID, p.Quantity, model.ReasonAdd)
	})
	if err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}

	log.Info().Uint("product_id", p.ProductID).Str("name", p.Name).Int("quantity", p.Quantity).Msg("product added")
	s.emit(ctx, dto.EventProductAdded, p)
	resp := s.toResponse(p)
	return &resp, nil
}

func (s *inventoryService) Update(ctx context.Context, id uint, req dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}
	p := &model.Product{
		ProductID:   id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		SupplierID:  req.SupplierID,
	}
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.UpdateTx(tx, p); err != nil {
			return notFound(err)
		}
		return s.logChange(tx, id, p.Quantity, model.ReasonEdit)
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	log.Info().Uint("product_id", id).Int("quantity", p.Quantity).Msg("product updated")
	s.emit(ctx, dto.EventProductUpdated, p)
	resp := s.toResponse(p)
	return &resp, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	var name string
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err)
		}
		name = p.Name
		return notFound(s.products.DeleteTx(tx, id))
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	log.Info().Uint("product_id", id).Str("name", name).Msg("product deleted")
	s.emit(ctx, dto.EventProductDeleted, &model.Product{ProductID: id, Name: name, Quantity: 0})
	return nil
}

// ── Sell ─────────────────────────────────────────────────────────────────────
// Locks the row, checks stock, decrements, records history and the sale, and
// auto-restocks when the result falls under the threshold. All or nothing.

func (s *inventoryService) Sell(ctx context.Context, id uint, quantity int) (*dto.SaleResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var (
		product *model.Product
		sale    *model.SalesHistoryEntry
		alert   *dto.LowStockAlert
	)
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		p, err := s.products.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err)
		}
		if quantity > p.Quantity {
			return fmt.Errorf("%w for %s: available %d, requested %d", ErrInsufficientStock, p.Name, p.Quantity, quantity)
		}

		now := s.now()
		newQty := p.Quantity - quantity
		if err := s.products.SetQuantityTx(tx, p.ProductID, newQty); err != nil {
			return err
		}
		p.Quantity = newQty
		if err := s.logChange(tx, p.ProductID, newQty, model.ReasonSell); err != nil {
			return err
		}

		sale = &model.SalesHistoryEntry{
			ProductName: p.Name,
			Quantity:    quantity,
			Total:       p.Price.Mul(decimal.NewFromInt(int64(quantity))),
			Timestamp:   now,
			Status:      model.SaleStatusSold,
		}
		if err := s.sales.CreateTx(tx, sale); err != nil {
			return err
		}

		if p.Quantity < s.threshold {
			a, err := s.restockTx(tx, p, now)
			if err != nil {
				return err
			}
			alert = a
		}
		product = p
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInsufficientStock) {
			log.Warn().Uint("product_id", id).Int("quantity", quantity).Err(err).Msg("sale rejected")
			return nil, err
		}
		return nil, fmt.Errorf("sell product %d: %w", id, err)
	}

	log.Info().Uint("product_id", id).Str("name", product.Name).Int("quantity", quantity).
		Str("total", sale.Total.StringFixed(2)).Msg("product sold")

	result := &dto.SaleResult{
		Sale:    toSalesEntryResponse(sale),
		Product: s.toResponse(product),
	}
	soldQty := product.Quantity
	if alert != nil {
		soldQty = alert.Quantity
		result.Restocked = true
		result.RestockQuantity = alert.RestockQuantity
	}
	s.notifier.Notify(ctx, s.event(dto.EventProductSold, product.ProductID, product.Name, soldQty))
	if alert != nil {
		s.raiseLowStock(ctx, *alert)
	}
	return result, nil
}

// ── Low stock ────────────────────────────────────────────────────────────────

// CheckLowStock raises an alert and restocks every product under the
// threshold. Each product is handled in its own transaction; failures are
// collected and the sweep continues.
func (s *inventoryService) CheckLowStock(ctx context.Context) ([]dto.LowStockAlert, error) {
	candidates, err := s.products.ListBelow(ctx, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	alerts := make([]dto.LowStockAlert, 0, len(candidates))
	var errs []error
	for _, c := range candidates {
		var alert *dto.LowStockAlert
		err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
			p, err := s.products.FindByIDForUpdateTx(tx, c.ProductID)
			if err != nil {
				return notFound(err)
			}
			// a concurrent sale or edit may already have moved it
			if p.Quantity >= s.threshold {
				return nil
			}
			alert, err = s.restockTx(tx, p, s.now())
			return err
		})
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			log.Error().Err(err).Uint("product_id", c.ProductID).Msg("low stock restock failed")
			errs = append(errs, fmt.Errorf("restock product %d: %w", c.ProductID, err))
			continue
		}
		if alert != nil {
			s.raiseLowStock(ctx, *alert)
			alerts = append(alerts, *alert)
		}
	}
	log.Info().Int("alerts", len(alerts)).Msg("low stock levels checked")
	return alerts, errors.Join(errs...)
}

// restockTx adds the restock quantity back, logs it as an inventory change
// and records the restock as an "ordered" sales entry. p is updated in place.
func (s *inventoryService) restockTx(tx *gorm.DB, p *model.Product, now time.Time) (*dto.LowStockAlert, error) {
	before := p.Quantity
	after := before + s.restockQty
	if err := s.products.SetQuantityTx(tx, p.ProductID, after); err != nil {
		return nil, err
	}
	if err := s.logChange(tx, p.ProductID, after, model.ReasonRestock); err != nil {
		return nil, err
	}
	order := &model.SalesHistoryEntry{
		ProductName: p.Name,
		Quantity:    s.restockQty,
		Total:       p.Price.Mul(decimal.NewFromInt(int64(s.restockQty))),
		Timestamp:   now,
		Status:      model.SaleStatusOrdered,
	}
	if err := s.sales.CreateTx(tx, order); err != nil {
		return nil, err
	}
	p.Quantity = after

	return &dto.LowStockAlert{
		ProductID:       p.ProductID,
		Name:            p.Name,
		Quantity:        before,
		RestockQuantity: s.restockQty,
		NewQuantity:     after,
		OrderTotal:      order.Total,
		Message:         fmt.Sprintf("Low stock level for %s. Current quantity: %d", p.Name, before),
	}, nil
}

func (s *inventoryService) raiseLowStock(ctx context.Context, a dto.LowStockAlert) {
	log.Warn().Uint("product_id", a.ProductID).Str("name", a.Name).
		Int("quantity", a.Quantity).Int("restocked_to", a.NewQuantity).Msg("low stock")
	s.notifier.Notify(ctx, s.event(dto.EventStockLow, a.ProductID, a.Name, a.Quantity))
	s.notifier.Notify(ctx, s.event(dto.EventProductRestocked, a.ProductID, a.Name, a.NewQuantity))
	if s.alerter == nil {
		return
	}
	if err := s.alerter.EnqueueLowStockAlert(ctx, a); err != nil {
		log.Error().Err(err).Uint("product_id", a.ProductID).Msg("enqueue low stock alert")
	}
}

// ── History ──────────────────────────────────────────────────────────────────

func (s *inventoryService) History(ctx context.Context, id uint, filter dto.HistoryFilter) (*dto.InventoryHistoryListResponse, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, notFound(err)
	}
	entries, total, err := s.history.List(ctx, repository.InventoryHistoryFilter{
		ProductID: id,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	resp := &dto.InventoryHistoryListResponse{
		Data:  make([]dto.InventoryHistoryResponse, len(entries)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i, e := range entries {
		resp.Data[i] = dto.InventoryHistoryResponse{
			ProductID:   e.ProductID,
			Timestamp:   e.Timestamp,
			NewQuantity: e.NewQuantity,
			Reason:      e.Reason,
		}
	}
	return resp, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *inventoryService) logChange(tx *gorm.DB, productID uint, qty int, reason string) error {
	return s.history.CreateTx(tx, &model.InventoryHistoryEntry{
		ProductID:   productID,
		Timestamp:   s.now(),
		NewQuantity: qty,
		Reason:      reason,
	})
}

func (s *inventoryService) checkSupplier(ctx context.Context, id *uint) error {
	if id == nil || s.suppliers == nil {
		return nil
	}
	if _, err := s.suppliers.FindByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupplierNotFound
		}
		return err
	}
	return nil
}

func (s *inventoryService) emit(ctx context.Context, kind string, p *model.Product) {
	s.notifier.Notify(ctx, s.event(kind, p.ProductID, p.Name, p.Quantity))
}

func (s *inventoryService) event(kind string, id uint, name string, qty int) dto.ChangeEvent {
	return dto.ChangeEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		ProductID: id,
		Name:      name,
		Quantity:  qty,
		At:        s.now(),
	}
}

func (s *inventoryService) toResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		SupplierID:  p.SupplierID,
		LowStock:    p.Quantity < s.threshold,
	}
}

// notFound maps gorm's not-found error to ErrProductNotFound and passes
// everything else (including nil) through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}
