package office

import "github.com/gin-gonic/gin"

// OfficeModule implements the app.Module interface for the office domain.
type OfficeModule struct {
	handler *OfficeHandler
}

// NewModule creates a new OfficeModule with the given handler.
// Panics if h is nil.
func NewModule(h *OfficeHandler) *OfficeModule {
	if h == nil {
		panic("office.NewModule: handler must not be nil")
	}
	return &OfficeModule{handler: h}
}

// RegisterRoutes registers the office API routes.
func (m *OfficeModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/offices", m.handler.List)
	api.POST("/offices", m.handler.Create)
	api.GET("/offices/:office_id", m.handler.Get)
	api.PUT("/offices/:office_id", m.handler.Update)
	api.DELETE("/offices/:office_id", m.handler.Delete)
}
