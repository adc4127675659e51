package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// ListResponse is the JSON envelope for paginated list responses.
type ListResponse[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// Success sends a 200 JSON response with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response and points Location at the new resource.
func Created(c *gin.Context, location string, data any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, data)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// List sends a 200 JSON response with a page of items and its pagination.
func List[T any](c *gin.Context, items []T, p *Pagination) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{Data: items, Pagination: p})
}

// Error sends the error envelope for err. If err is a *domain.AppError, its
// code is mapped to the HTTP status and, for client errors, its message is
// used as the description. Server errors are logged with their cause.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)
	msg := MessageFor(status)

	var appErr *domain.AppError
	if status < http.StatusInternalServerError && errors.As(err, &appErr) && appErr.Message != "" {
		msg.Description = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Messages: []Message{msg}})
}

// ErrorStatus sends the fixed envelope for status.
func ErrorStatus(c *gin.Context, status int) {
	c.AbortWithStatusJSON(status, ErrorResponse{Messages: []Message{MessageFor(status)}})
}

// ValidationError sends a 400 envelope with one message per invalid field.
func ValidationError(c *gin.Context, err error) {
	validationErrorWithType(c, err, nil)
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it automatically sends a ValidationError response and returns false.
// Because obj is available, JSON struct tags are used for field names when possible.
// Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationErrorWithType(c, err, obj)
		return false
	}
	return true
}

// validationErrorWithType sends a 400 validation error response.
// When obj is non-nil, it reflects on the struct to prefer JSON tag names.
func validationErrorWithType(c *gin.Context, err error, obj any) {
	base := MessageFor(http.StatusBadRequest)

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// Malformed body or a type mismatch.
		base.Description = err.Error()
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Messages: []Message{base}})
		return
	}

	root := structType(obj)

	messages := make([]Message, 0, len(ve))
	for _, fe := range ve {
		name := fieldPath(root, fe)
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		m := base
		m.Description = fmt.Sprintf("%s: %s", name, rule)
		messages = append(messages, m)
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Messages: messages})
}

// structType returns the struct type behind obj, or nil.
func structType(obj any) reflect.Type {
	if obj == nil {
		return nil
	}
	t := deref(reflect.TypeOf(obj))
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// fieldPath names the field of fe by its JSON path below root, for example
// "addresses[0].postal_code". Without a root type it falls back to the
// lowercased field name.
func fieldPath(root reflect.Type, fe validator.FieldError) string {
	segments := strings.Split(fe.StructNamespace(), ".")
	if root == nil || len(segments) < 2 {
		return strings.ToLower(fe.Field())
	}

	t := root
	parts := make([]string, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		name, index, indexed := strings.Cut(seg, "[")
		jsonName := strings.ToLower(name)

		var f reflect.StructField
		ok := t != nil && t.Kind() == reflect.Struct
		if ok {
			f, ok = t.FieldByName(name)
		}
		if ok {
			if tag := parseJSONTagName(f.Tag.Get("json")); tag != "" {
				jsonName = tag
			}
			t = deref(f.Type)
			if indexed {
				t = elemType(t)
			}
		} else {
			t = nil
		}

		if indexed {
			jsonName += "[" + index
		}
		parts = append(parts, jsonName)
	}
	return strings.Join(parts, ".")
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func elemType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return deref(t.Elem())
	default:
		return nil
	}
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
