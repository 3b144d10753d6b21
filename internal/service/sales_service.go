package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ims/internal/dto"
	"ims/internal/infra"
	"ims/internal/model"
	"ims/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Report kinds served by Report.
const (
	ReportSales         = "sales"
	ReportStock         = "stock"
	ReportProfitability = "profitability"
)

const (
	DefaultCriticalStockThreshold = 15
	// NoRestockSuggestions is returned as the message when nothing is low.
	NoRestockSuggestions = "No restocking suggestions at the moment."
)

type SalesService interface {
	RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SalesEntryResponse, error)
	ListSales(ctx context.Context, filter dto.SalesFilter) (*dto.SalesListResponse, error)
	Report(ctx context.Context, kind string) (*dto.ReportResponse, error)
	ReportPDF(ctx context.Context, kind string, w io.Writer) error
	RestockSuggestions(ctx context.Context, low, critical int) (*dto.RestockSuggestionsResponse, error)
}

// SalesOptions holds the fallback thresholds for restock suggestions.
// Zero values fall back to the package defaults.
type SalesOptions struct {
	LowStockThreshold      int
	CriticalStockThreshold int
}

type salesService struct {
	sales    repository.SalesHistoryRepository
	products repository.ProductRepository
	low      int
	critical int
	now      func() time.Time
}

func NewSalesService(sales repository.SalesHistoryRepository, products repository.ProductRepository, opts SalesOptions) SalesService {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = DefaultLowStockThreshold
	}
	if opts.CriticalStockThreshold <= 0 {
		opts.CriticalStockThreshold = DefaultCriticalStockThreshold
	}
	return &salesService{
		sales:    sales,
		products: products,
		low:      opts.LowStockThreshold,
		critical: opts.CriticalStockThreshold,
		now:      time.Now,
	}
}

// RecordSale appends a row to the sales history. It does not touch stock.
func (s *salesService) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SalesEntryResponse, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.Status != model.SaleStatusSold && req.Status != model.SaleStatusOrdered {
		return nil, ErrInvalidSaleStatus
	}
	e := &model.SalesHistoryEntry{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Total:       req.Total,
		Timestamp:   s.now(),
		Status:      req.Status,
	}
	if err := s.sales.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}
	log.Info().Str("product", e.ProductName).Int("quantity", e.Quantity).
		Str("total", e.Total.StringFixed(2)).Str("status", e.Status).Msg("sales order logged")
	resp := toSalesEntryResponse(e)
	return &resp, nil
}

func (s *salesService) ListSales(ctx context.Context, filter dto.SalesFilter) (*dto.SalesListResponse, error) {
	entries, total, err := s.sales.List(ctx, repository.SalesHistoryFilter{
		Status:      filter.Status,
		ProductName: filter.ProductName,
		Page:        filter.Page,
		Limit:       filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	resp := &dto.SalesListResponse{
		Data:  make([]dto.SalesEntryResponse, len(entries)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range entries {
		resp.Data[i] = toSalesEntryResponse(&entries[i])
	}
	return resp, nil
}

// Report builds a chart-ready (label, value) dataset.
//
//	sales          SUM(quantity) of sold rows per product name
//	stock          current quantity per product
//	profitability  SUM(total) of sold rows per product name
func (s *salesService) Report(ctx context.Context, kind string) (*dto.ReportResponse, error) {
	var (
		rows []repository.LabelValue
		err  error
		resp = &dto.ReportResponse{Kind: kind}
	)
	switch kind {
	case ReportSales:
		resp.Title, resp.Metric = "Sales Report", "quantity"
		rows, err = s.sales.SumQuantityByProduct(ctx, model.SaleStatusSold)
	case ReportProfitability:
		resp.Title, resp.Metric = "Profitability Report", "profit"
		rows, err = s.sales.SumTotalByProduct(ctx, model.SaleStatusSold)
	case ReportStock:
		resp.Title, resp.Metric = "Stock Report", "quantity"
		var products []model.Product
		products, err = s.products.List(ctx)
		for _, p := range products {
			rows = append(rows, repository.LabelValue{Label: p.Name, Value: decimal.NewFromInt(int64(p.Quantity))})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s report: %w", kind, err)
	}

	resp.Points = make([]dto.ReportPoint, len(rows))
	for i, r := range rows {
		resp.Points[i] = dto.ReportPoint{Label: r.Label, Value: r.Value}
	}
	log.Info().Str("kind", kind).Int("points", len(resp.Points)).Msg("report generated")
	return resp, nil
}

// ReportPDF renders the report as a bar chart.
func (s *salesService) ReportPDF(ctx context.Context, kind string, w io.Writer) error {
	report, err := s.Report(ctx, kind)
	if err != nil {
		return err
	}
	rows := make([]infra.BarChartRow, len(report.Points))
	for i, p := range report.Points {
		v, _ := p.Value.Float64()
		text := p.Value.StringFixed(2)
		if report.Metric == "quantity" {
			text = p.Value.StringFixed(0)
		}
		rows[i] = infra.BarChartRow{Label: p.Label, Value: v, Text: text}
	}
	return infra.WriteBarChartPDF(w, report.Title, s.now(), rows)
}

// RestockSuggestions lists products whose quantity is under both thresholds
// with the units needed to reach the critical level. Non-positive thresholds
// use the configured ones.
func (s *salesService) RestockSuggestions(ctx context.Context, low, critical int) (*dto.RestockSuggestionsResponse, error) {
	if low <= 0 {
		low = s.low
	}
	if critical <= 0 {
		critical = s.critical
	}
	products, err := s.products.ListBelow(ctx, min(low, critical))
	if err != nil {
		return nil, fmt.Errorf("restock suggestions: %w", err)
	}

	resp := &dto.RestockSuggestionsResponse{Suggestions: make([]dto.RestockSuggestion, 0, len(products))}
	if len(products) == 0 {
		resp.Message = NoRestockSuggestions
		return resp, nil
	}
	lines := make([]string, len(products))
	for i, p := range products {
		needed := critical - p.Quantity
		text := fmt.Sprintf("%s: %d units needed", p.Name, needed)
		resp.Suggestions = append(resp.Suggestions, dto.RestockSuggestion{
			Name:        p.Name,
			Quantity:    p.Quantity,
			UnitsNeeded: needed,
			Text:        text,
		})
		lines[i] = text
	}
	resp.Message = strings.Join(lines, "\n")
	return resp, nil
}

func toSalesEntryResponse(e *model.SalesHistoryEntry) dto.SalesEntryResponse {
	return dto.SalesEntryResponse{
		OrderID:     e.OrderID,
		ProductName: e.ProductName,
		Quantity:    e.Quantity,
		Total:       e.Total,
		Timestamp:   e.Timestamp,
		Status:      e.Status,
	}
}
