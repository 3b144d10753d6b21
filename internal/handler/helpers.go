package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"ims/internal/apierror"
	"ims/internal/service"
	"ims/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		verr, ok := apierror.FromValidator(err)
		if !ok {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, verr)
		return false
	}
	return true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return 0, false
	}
	return uint(id), true
}

// writeError maps service errors to HTTP statuses. Anything unrecognised is
// handed to the ErrorHandler middleware, which logs it and answers 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrSupplierNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDuplicateSupplier):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidSaleStatus),
		errors.Is(err, service.ErrUnknownReport):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, session.ErrNoPanelForRole):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}
