package customer

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/n0nuser/gin-archetype/internal/domain"
	"github.com/n0nuser/gin-archetype/internal/pkg"
)

// CustomerHandler handles REST API requests for customers and their addresses.
type CustomerHandler struct {
	svc  domain.CustomerService
	opts pkg.ListOptions
}

// NewCustomerHandler creates a new CustomerHandler with the given service.
func NewCustomerHandler(svc domain.CustomerService, opts pkg.ListOptions) *CustomerHandler {
	return &CustomerHandler{svc: svc, opts: opts}
}

// List handles GET /api/v1/customers.
func (h *CustomerHandler) List(c *gin.Context) {
	page, err := pkg.ParsePageParams(c, h.opts.Limits)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var q ListCustomersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		pkg.ValidationError(c, err)
		return
	}

	items, total, err := h.svc.ListCustomers(c.Request.Context(), domain.CustomerQuery{
		Offset:     page.Offset,
		Limit:      page.Limit,
		Street:     q.Street,
		City:       q.City,
		Country:    q.Country,
		PostalCode: q.PostalCode,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	p, err := pkg.NewPagination(page.Offset, page.Limit, total, pkg.RequestURL(c, h.opts.BaseURL))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, toSummaries(items), p)
}

// Create handles POST /api/v1/customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	id, err := h.svc.CreateCustomer(c.Request.Context(), req.Name, addressInputs(req.Addresses))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, childPath(c, id.String()), CustomerCreated{CustomerID: id})
}

// Get handles GET /api/v1/customers/:customer_id.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "customer_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	cust, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toDetail(cust))
}

// Update handles PUT /api/v1/customers/:customer_id.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "customer_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateCustomerRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	if err := h.svc.UpdateCustomer(c.Request.Context(), id, domain.CustomerPatch{Name: req.Name}); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}

// Delete handles DELETE /api/v1/customers/:customer_id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "customer_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteCustomer(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}

// CreateAddress handles POST /api/v1/customers/:customer_id/addresses.
func (h *CustomerHandler) CreateAddress(c *gin.Context) {
	customerID, err := pkg.ParseUUIDParam(c, "customer_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req AddressRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	id, err := h.svc.CreateAddress(c.Request.Context(), customerID, req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, childPath(c, id.String()), AddressCreated{AddressID: id})
}

// UpdateAddress handles PUT /api/v1/customers/:customer_id/addresses/:address_id.
func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	customerID, err := pkg.ParseUUIDParam(c, "customer_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	addressID, err := pkg.ParseUUIDParam(c, "address_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req AddressRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	if err := h.svc.UpdateAddress(c.Request.Context(), customerID, addressID, req.input()); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}

// DeleteAddress handles DELETE /api/v1/customers/:customer_id/addresses/:address_id.
func (h *CustomerHandler) DeleteAddress(c *gin.Context) {
	customerID, err := pkg.ParseUUIDParam(c, "customer_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	addressID, err := pkg.ParseUUIDParam(c, "address_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteAddress(c.Request.Context(), customerID, addressID); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}

// childPath returns the request path extended by one segment.
func childPath(c *gin.Context, segment string) string {
	return strings.TrimSuffix(c.Request.URL.Path, "/") + "/" + segment
}
