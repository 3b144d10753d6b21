package handler

import (
	"net/http"

	"ims/internal/dto"
	"ims/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.InventoryService }

func NewProductsHandler(svc service.InventoryService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Router /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	resp, err := h.svc.LoadAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Add a product
// @Tags products
// @Accept json
// @Produce json
// @Param body body dto.ProductRequest true "Product"
// @Success 201 {object} dto.ProductResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Add(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sell godoc
// @Summary Sell units of a product
// @Description Decrements stock, records the sale and auto-restocks under the low-stock threshold.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param body body dto.SellRequest true "Quantity"
// @Success 200 {object} dto.SaleResult
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError "insufficient stock"
// @Router /v1/products/{id}/sell [post]
func (h *ProductsHandler) Sell(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.SellRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Sell(c.Request.Context(), id, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var filter dto.HistoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.History(c.Request.Context(), id, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckLowStock runs the low-stock sweep on demand.
func (h *ProductsHandler) CheckLowStock(c *gin.Context) {
	alerts, err := h.svc.CheckLowStock(c.Request.Context())
	if err != nil && alerts == nil {
		writeError(c, err)
		return
	}
	resp := gin.H{"alerts": alerts}
	if err != nil {
		// some products restocked, some failed
		_ = c.Error(err)
		resp["partial"] = true
	}
	c.JSON(http.StatusOK, resp)
}
