package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordSaleRequest struct {
	ProductName string          `json:"product_name" validate:"required,min=1,max=120"`
	Quantity    int             `json:"quantity"     validate:"required,min=1"`
	Total       decimal.Decimal `json:"total"        validate:"min=0"`
	Status      string          `json:"status"       validate:"required,oneof=sold ordered"`
}

type SalesFilter struct {
	Status      string `form:"status"` // sold | ordered | empty = all
	ProductName string `form:"product_name"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type SalesEntryResponse struct {
	OrderID     uint            `json:"order_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	Timestamp   time.Time       `json:"timestamp"`
	Status      string          `json:"status"`
}

type SalesListResponse struct {
	Data  []SalesEntryResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ReportPoint is one (label, value) pair of a chart-ready dataset.
type ReportPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type ReportResponse struct {
	Kind   string        `json:"kind"`
	Title  string        `json:"title"`
	Metric string        `json:"metric"`
	Points []ReportPoint `json:"points"`
}

type RestockFilter struct {
	Low      int `form:"low"      validate:"min=0"`
	Critical int `form:"critical" validate:"min=0"`
}

type RestockSuggestion struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	UnitsNeeded int    `json:"units_needed"`
	Text        string `json:"text"`
}

type RestockSuggestionsResponse struct {
	Suggestions []RestockSuggestion `json:"suggestions"`
	// Message joins the suggestion lines, or holds the empty-result marker.
	Message string `json:"message"`
}
