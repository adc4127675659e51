package office

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/n0nuser/gin-archetype/internal/domain"
	"github.com/n0nuser/gin-archetype/internal/pkg"
)

// OfficeHandler handles REST API requests for the office resource.
type OfficeHandler struct {
	svc  domain.OfficeService
	opts pkg.ListOptions
}

// NewOfficeHandler creates a new OfficeHandler with the given service.
func NewOfficeHandler(svc domain.OfficeService, opts pkg.ListOptions) *OfficeHandler {
	return &OfficeHandler{svc: svc, opts: opts}
}

// List handles GET /api/v1/offices.
func (h *OfficeHandler) List(c *gin.Context) {
	page, err := pkg.ParsePageParams(c, h.opts.Limits)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var q ListOfficesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		pkg.ValidationError(c, err)
		return
	}

	items, total, err := h.svc.ListOffices(c.Request.Context(), domain.OfficeQuery{
		Offset:   page.Offset,
		Limit:    page.Limit,
		Province: q.Province,
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

// Create handles POST /api/v1/offices.
func (h *OfficeHandler) Create(c *gin.Context) {
	var req OfficeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	id, err := h.svc.CreateOffice(c.Request.Context(), req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	location := strings.TrimSuffix(c.Request.URL.Path, "/") + "/" + id.String()
	pkg.Created(c, location, OfficeCreated{OfficeID: id})
}

// Get handles GET /api/v1/offices/:office_id.
func (h *OfficeHandler) Get(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "office_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	o, err := h.svc.GetOffice(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, toDetail(o))
}

// Update handles PUT /api/v1/offices/:office_id.
func (h *OfficeHandler) Update(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "office_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req OfficeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	if err := h.svc.UpdateOffice(c.Request.Context(), id, req.input()); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}

// Delete handles DELETE /api/v1/offices/:office_id.
func (h *OfficeHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "office_id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteOffice(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}
