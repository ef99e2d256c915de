package handler

import (
	"time"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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

// parseDate parses a YYYY-MM-DD request field
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperror.NewBadRequestError("Invalid " + field + " format, expected YYYY-MM-DD")
	}
	return t, nil
}

// parseOptionalDate parses an optional YYYY-MM-DD request field
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// toLineItems converts request lines into service inputs
func toLineItems(items []request.LineItemRequest) ([]service.LineItemInput, error) {
	out := make([]service.LineItemInput, len(items))
	for i, item := range items {
		input := service.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VatRate:     item.VatRate,
		}
		if item.ProductID != nil && *item.ProductID != "" {
			id, err := uuid.Parse(*item.ProductID)
			if err != nil {
				return nil, apperror.NewBadRequestError("Invalid product ID")
			}
			input.ProductID = &id
		}
		if item.ServiceID != nil && *item.ServiceID != "" {
			id, err := uuid.Parse(*item.ServiceID)
			if err != nil {
				return nil, apperror.NewBadRequestError("Invalid service ID")
			}
			input.ServiceID = &id
		}
		out[i] = input
	}
	return out, nil
}
