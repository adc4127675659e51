package pkg

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// ListOptions configures list handlers.
type ListOptions struct {
	Limits PageLimits
	// BaseURL overrides the scheme and host of pagination links.
	BaseURL string
}

// ParseUUIDParam reads a UUID path parameter. A malformed value is a
// validation error.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("invalid %s: %s", name, raw), err)
	}
	return id, nil
}
