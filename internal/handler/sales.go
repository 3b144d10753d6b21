package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"ims/internal/dto"
	"ims/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SalesService }

func NewSalesHandler(svc service.SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// Record godoc
// @Summary Log a sales order
// @Tags sales
// @Accept json
// @Produce json
// @Param body body dto.RecordSaleRequest true "Order"
// @Success 201 {object} dto.SalesEntryResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/sales [post]
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordSale(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SalesFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary Chart-ready report dataset
// @Tags reports
// @Produce json
// @Param kind path string true "sales | stock | profitability"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/reports/{kind} [get]
func (h *SalesHandler) Report(c *gin.Context) {
	resp, err := h.svc.Report(c.Request.Context(), c.Param("kind"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReportPDF renders the report as a bar chart. The PDF is buffered so a
// failure can still produce a JSON error.
func (h *SalesHandler) ReportPDF(c *gin.Context) {
	kind := c.Param("kind")
	var buf bytes.Buffer
	if err := h.svc.ReportPDF(c.Request.Context(), kind, &buf); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-report.pdf"`, kind))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *SalesHandler) RestockSuggestions(c *gin.Context) {
	var filter dto.RestockFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.RestockSuggestions(c.Request.Context(), filter.Low, filter.Critical)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
