package customer

import "github.com/gin-gonic/gin"

// CustomerModule implements the app.Module interface for the customer domain.
type CustomerModule struct {
	handler *CustomerHandler
}

// NewModule creates a new CustomerModule with the given handler.
// Panics if h is nil.
func NewModule(h *CustomerHandler) *CustomerModule {
	if h == nil {
		panic("customer.NewModule: handler must not be nil")
	}
	return &CustomerModule{handler: h}
}

// RegisterRoutes registers the customer API routes.
func (m *CustomerModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/customers", m.handler.List)
	api.POST("/customers", m.handler.Create)
	api.GET("/customers/:customer_id", m.handler.Get)
	api.PUT("/customers/:customer_id", m.handler.Update)
	api.DELETE("/customers/:customer_id", m.handler.Delete)

	api.POST("/customers/:customer_id/addresses", m.handler.CreateAddress)
	api.PUT("/customers/:customer_id/addresses/:address_id", m.handler.UpdateAddress)
	api.DELETE("/customers/:customer_id/addresses/:address_id", m.handler.DeleteAddress)
}
