package pkg

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// PageLimits bounds the limit query parameter.
type PageLimits struct {
	DefaultLimit int
	MaxLimit     int
}

// PageParams is a parsed offset/limit window.
type PageParams struct {
	Offset int
	Limit  int
}

// Link is a single hypermedia reference.
type Link struct {
	Href string `json:"href"`
}

// Links holds the navigation links of a page. Only Self is set when the
// collection is empty.
type Links struct {
	First *Link `json:"first"`
	Prev  *Link `json:"prev"`
	Self  *Link `json:"self"`
	Next  *Link `json:"next"`
	Last  *Link `json:"last"`
}

// Pagination is the metadata returned alongside list results.
type Pagination struct {
	Offset        int   `json:"offset"`
	Limit         int   `json:"limit"`
	PageNumber    int   `json:"page_number"`
	TotalPages    int   `json:"total_pages"`
	TotalElements int64 `json:"total_elements"`
	Links         Links `json:"links"`
}

// pageQuery is the bound form of the offset and limit query parameters.
// The upper limit depends on configuration and is checked after binding.
type pageQuery struct {
	Limit  *int `form:"limit" binding:"omitempty,min=1"`
	Offset *int `form:"offset" binding:"omitempty,min=0"`
}

// ParsePageParams binds offset and limit from the query string.
// Missing values take their defaults; malformed or out of range values fail
// with a validation error.
func ParsePageParams(c *gin.Context, limits PageLimits) (PageParams, error) {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = defaultLimit
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = maxLimit
	}

	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return PageParams{}, domain.NewAppError(domain.CodeValidation, pageParamMessage(err, limits.MaxLimit), err)
	}

	params := PageParams{Limit: limits.DefaultLimit}
	if q.Limit != nil {
		if err := validate().Var(*q.Limit, fmt.Sprintf("max=%d", limits.MaxLimit)); err != nil {
			return PageParams{}, domain.NewAppError(domain.CodeValidation, pageParamMessage(err, limits.MaxLimit), err)
		}
		params.Limit = *q.Limit
	}
	if q.Offset != nil {
		params.Offset = *q.Offset
	}
	return params, nil
}

// validate returns gin's validator engine so query checks share its rules.
func validate() *validator.Validate {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v
	}
	return validator.New()
}

func pageParamMessage(err error, upper int) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Offset" {
		return "offset must be greater than or equal to 0"
	}
	if errors.As(err, &verrs) {
		return fmt.Sprintf("limit must be between 1 and %d", upper)
	}
	return "limit and offset must be integers"
}

// NewPagination computes the page metadata and links for a window over
// total elements. Links rewrite the limit and offset parameters of base and
// keep every other query parameter.
func NewPagination(offset, limit int, total int64, base *url.URL) (*Pagination, error) {
	if limit <= 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "limit must be greater than 0", nil)
	}
	if total < 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "total elements must be greater than or equal to 0", nil)
	}
	if offset < 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "offset must be greater than or equal to 0", nil)
	}
	if base == nil {
		return nil, domain.NewAppError(domain.CodeValidation, "base url is required", nil)
	}

	totalPages := TotalPages(total, limit)
	p := &Pagination{
		Offset:        offset,
		Limit:         limit,
		PageNumber:    PageNumber(offset, limit),
		TotalPages:    totalPages,
		TotalElements: total,
	}

	self := linkAt(base, limit, offset)
	p.Links.Self = self
	if total == 0 {
		return p, nil
	}

	lastPage := totalPages - 1
	lastOffset := lastPage * limit

	p.Links.First = linkAt(base, limit, 0)

	p.Links.Prev = self
	if offset > 0 {
		p.Links.Prev = linkAt(base, limit, max(0, offset-limit))
	}

	p.Links.Next = self
	if offset < lastOffset {
		p.Links.Next = linkAt(base, limit, min(lastOffset, offset+limit))
	}

	// last resolves to the page before the final one.
	p.Links.Last = linkAt(base, limit, max(0, (lastPage-1)*limit))

	return p, nil
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// PageNumber returns the 1-based page reported for offset, computed as
// ceil((offset-1)/limit)+1. It differs from ConventionalPageNumber when
// offset is not a multiple of limit.
func PageNumber(offset, limit int) int {
	if limit <= 0 {
		return 0
	}
	return ceilDiv(offset-1, limit) + 1
}

// ConventionalPageNumber returns floor(offset/limit)+1.
func ConventionalPageNumber(offset, limit int) int {
	if limit <= 0 {
		return 0
	}
	return offset/limit + 1
}

// ceilDiv divides rounding toward positive infinity. d must be positive.
func ceilDiv(n, d int) int {
	q := n / d
	if n%d != 0 && n > 0 {
		q++
	}
	return q
}

func linkAt(base *url.URL, limit, offset int) *Link {
	u := *base
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return &Link{Href: u.String()}
}

// RequestURL returns the absolute URL of the current request. When baseURL
// is set it replaces the scheme and host seen by the server.
func RequestURL(c *gin.Context, baseURL string) *url.URL {
	u := &url.URL{
		Scheme:   "http",
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		u.Scheme = "https"
	}

	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		if b, err := url.Parse(baseURL); err == nil && b.Host != "" {
			u.Scheme = b.Scheme
			u.Host = b.Host
			u.Path = strings.TrimSuffix(b.Path, "/") + u.Path
		}
	}
	return u
}
