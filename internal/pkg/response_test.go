package pkg

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// testInput is used to generate real validator.ValidationErrors.
type testInput struct {
	Name    string `json:"name" validate:"required"`
	Country string `json:"country" validate:"required,len=2"`
}

// newResponseTestContext creates a gin context backed by an httptest.ResponseRecorder.
func newResponseTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// newResponseTestContextWithBody creates a gin context with a JSON request body.
func newResponseTestContextWithBody(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Messages) == 0 {
		t.Fatal("expected at least one message")
	}
	return resp
}

func TestSuccess(t *testing.T) {
	c, w := newResponseTestContext()

	Success(c, map[string]string{"greeting": "hello"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"greeting":"hello"}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestCreated(t *testing.T) {
	c, w := newResponseTestContext()

	Created(c, "/api/v1/customers/42", map[string]string{"customer_id": "42"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if got := w.Header().Get("Location"); got != "/api/v1/customers/42" {
		t.Errorf("expected Location header, got %q", got)
	}
}

func TestNoContent(t *testing.T) {
	r := gin.New()
	r.DELETE("/x", NoContent)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestList(t *testing.T) {
	c, w := newResponseTestContext()

	type item struct {
		ID   string `json:"customer_id"`
		Name string `json:"name"`
	}
	base, _ := url.Parse("http://h/api/v1/customers")
	p, err := NewPagination(0, 10, 2, base)
	if err != nil {
		t.Fatalf("NewPagination: %v", err)
	}
	List(c, []item{{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"}}, p)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Data       []item          `json:"data"`
		Pagination json.RawMessage `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 items, got %d", len(resp.Data))
	}

	var meta map[string]any
	if err := json.Unmarshal(resp.Pagination, &meta); err != nil {
		t.Fatalf("failed to unmarshal pagination: %v", err)
	}
	for _, key := range []string{"offset", "limit", "page_number", "total_pages", "total_elements", "links"} {
		if _, ok := meta[key]; !ok {
			t.Errorf("pagination missing %q", key)
		}
	}
}

func TestList_NilItemsBecomesEmptyArray(t *testing.T) {
	c, w := newResponseTestContext()
	base, _ := url.Parse("http://h/x")
	p, _ := NewPagination(0, 10, 0, base)

	List[string](c, nil, p)

	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"first":null`) {
		t.Errorf("expected null first link, got %s", w.Body.String())
	}
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already exists", domain.NewAppError(domain.CodeAlreadyExists, "already exists", nil), http.StatusConflict, "CONFLICT"},
		{"validation", domain.NewAppError(domain.CodeValidation, "limit must be between 1 and 100", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"unsupported", domain.ErrUnsupported, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"internal", domain.NewAppError(domain.CodeInternal, "database error", errors.New("conn reset")), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext()
			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := decodeErrorResponse(t, w)
			if resp.Messages[0].Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, resp.Messages[0].Code)
			}
		})
	}
}

func TestError_ClientErrorUsesAppMessage(t *testing.T) {
	c, w := newResponseTestContext()

	Error(c, domain.NewAppError(domain.CodeValidation, "limit must be between 1 and 100", nil))

	resp := decodeErrorResponse(t, w)
	m := resp.Messages[0]
	if m.Message != "Bad Request" || m.ErrorType != "FATAL" {
		t.Errorf("unexpected message %+v", m)
	}
	if m.Description != "limit must be between 1 and 100" {
		t.Errorf("expected app message as description, got %q", m.Description)
	}
}

func TestError_ServerErrorHidesCauseAndLogs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	c, w := newResponseTestContext()
	Error(c, domain.NewAppError(domain.CodeInternal, "database error", errors.New("password=secret")))

	if strings.Contains(w.Body.String(), "secret") {
		t.Errorf("response leaked cause: %s", w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.Messages[0].Description != MessageFor(http.StatusInternalServerError).Description {
		t.Errorf("expected static description, got %q", resp.Messages[0].Description)
	}
	if !strings.Contains(buf.String(), "password=secret") {
		t.Errorf("expected cause in log, got %s", buf.String())
	}
}

func TestErrorStatus(t *testing.T) {
	c, w := newResponseTestContext()

	ErrorStatus(c, http.StatusMethodNotAllowed)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
	resp := decodeErrorResponse(t, w)
	if resp.Messages[0].Code != "METHOD_NOT_ALLOWED" || resp.Messages[0].ErrorType != "ERROR" {
		t.Errorf("unexpected message %+v", resp.Messages[0])
	}
}

func TestMessageFor(t *testing.T) {
	codes := []int{400, 401, 403, 404, 405, 406, 409, 413, 414, 415, 422, 423, 429, 500, 501, 502, 503, 504}
	for _, code := range codes {
		m := MessageFor(code)
		if m.Code == "" || m.Message == "" || m.Description == "" {
			t.Errorf("incomplete message for %d: %+v", code, m)
		}
		if m.ErrorType != "FATAL" && m.ErrorType != "ERROR" {
			t.Errorf("unexpected error type for %d: %q", code, m.ErrorType)
		}
	}

	if got := MessageFor(418).Code; got != "BAD_REQUEST" {
		t.Errorf("unknown 4xx should fall back to BAD_REQUEST, got %q", got)
	}
	if got := MessageFor(599).Code; got != "INTERNAL_SERVER_ERROR" {
		t.Errorf("unknown 5xx should fall back to INTERNAL_SERVER_ERROR, got %q", got)
	}
}

func TestValidationError_WithValidatorErrors(t *testing.T) {
	c, w := newResponseTestContext()

	err := validator.New().Struct(testInput{Country: "ESP"})
	ValidationError(c, err)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	resp := decodeErrorResponse(t, w)
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Messages))
	}

	// Without obj, ValidationError falls back to lowercased struct field names.
	descriptions := []string{resp.Messages[0].Description, resp.Messages[1].Description}
	want := []string{"name: required", "country: len=2"}
	for i := range want {
		if descriptions[i] != want[i] {
			t.Errorf("description[%d] = %q; want %q", i, descriptions[i], want[i])
		}
	}
}

func TestValidationError_NonValidationError(t *testing.T) {
	c, w := newResponseTestContext()

	ValidationError(c, errors.New("bad json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	resp := decodeErrorResponse(t, w)
	if resp.Messages[0].Description != "bad json" {
		t.Errorf("expected description %q, got %q", "bad json", resp.Messages[0].Description)
	}
}

func TestBindAndValidate_InvalidJSON(t *testing.T) {
	c, w := newResponseTestContextWithBody(`{"invalid json`)

	type bindInput struct {
		Name string `json:"name" binding:"required"`
	}

	var input bindInput
	if BindAndValidate(c, &input) {
		t.Error("expected BindAndValidate to return false for invalid JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	resp := decodeErrorResponse(t, w)
	if resp.Messages[0].Code != "BAD_REQUEST" {
		t.Errorf("expected BAD_REQUEST, got %q", resp.Messages[0].Code)
	}
}

func TestBindAndValidate_MissingFields(t *testing.T) {
	c, w := newResponseTestContextWithBody(`{}`)

	type bindInput struct {
		Name       string `json:"name" binding:"required"`
		PostalCode string `json:"postal_code" binding:"required"`
	}

	var input bindInput
	if BindAndValidate(c, &input) {
		t.Error("expected BindAndValidate to return false for missing required fields")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	// BindAndValidate has obj, so it should use JSON tag names.
	resp := decodeErrorResponse(t, w)
	body := w.Body.String()
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %s", body)
	}
	if !strings.Contains(body, "postal_code: required") {
		t.Errorf("expected postal_code in descriptions, got %s", body)
	}
}

func TestBindAndValidate_ValidInput(t *testing.T) {
	c, w := newResponseTestContextWithBody(`{"name":"Alice"}`)

	type bindInput struct {
		Name string `json:"name" binding:"required"`
	}

	var input bindInput
	if !BindAndValidate(c, &input) {
		t.Error("expected BindAndValidate to return true for valid input")
	}
	// No response should be written on success.
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body on success, got %q", w.Body.String())
	}
	if input.Name != "Alice" {
		t.Errorf("expected Name='Alice', got %q", input.Name)
	}
}

type nestedAddress struct {
	PostalCode string `json:"postal_code" validate:"required"`
}

type nestedInput struct {
	Name      string          `json:"name" validate:"required"`
	Primary   *nestedAddress  `json:"primary" validate:"required"`
	Addresses []nestedAddress `json:"addresses" validate:"dive"`
}

func TestValidationError_NestedFieldsUseJSONPaths(t *testing.T) {
	c, w := newResponseTestContext()

	in := nestedInput{
		Name:      "Ada",
		Primary:   &nestedAddress{},
		Addresses: []nestedAddress{{PostalCode: "28001"}, {}},
	}
	validationErrorWithType(c, validator.New().Struct(in), &in)

	resp := decodeErrorResponse(t, w)
	got := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		got = append(got, m.Description)
	}
	want := []string{"primary.postal_code: required", "addresses[1].postal_code: required"}
	if len(got) != len(want) {
		t.Fatalf("descriptions = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("description[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}
