package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trustmeds/pharmacy-api/internal/domain/inventory"
	"github.com/trustmeds/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/trustmeds/pharmacy-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	return role.(string)
}

// paginationFromQuery builds pagination params from page/per_page values
func paginationFromQuery(page, perPage int) *pagination.PaginationParams {
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

// parseDate parses a YYYY-MM-DD value
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// inventoryError maps the inventory sentinel errors onto HTTP responses.
// Returns false if the error is not an inventory error.
func inventoryError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, inventory.ErrInvalidQuantity):
		response.ErrorWithCode(c, 400, err.Error())
	case errors.Is(err, inventory.ErrUnknownMedicine),
		errors.Is(err, inventory.ErrUnknownBatch):
		response.ErrorWithCode(c, 404, err.Error())
	case errors.Is(err, inventory.ErrSafetyHold):
		response.ErrorWithCode(c, 409, err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		response.ErrorWithCode(c, 422, err.Error())
	case errors.Is(err, inventory.ErrTransactionAborted):
		response.ErrorWithCode(c, 500, err.Error())
	default:
		return false
	}
	return true
}
