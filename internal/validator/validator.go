// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"marketpulse/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("stock_sort_field", validateStockSortField)
		_ = v.RegisterValidation("sort_order", validateSortOrder)
		_ = v.RegisterValidation("ticker", validateTicker)
	}
}

func validateStockSortField(fl validator.FieldLevel) bool {
	_, ok := models.StockSortFields[fl.Field().String()]
	return ok
}

func validateSortOrder(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "asc", "desc":
		return true
	}
	return false
}

// validateTicker accepts 1-10 letters, digits, dots or dashes (e.g. BRK.B).
func validateTicker(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) == 0 || len(s) > 10 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}
