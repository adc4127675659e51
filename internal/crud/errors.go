package crud

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// Sentinel causes wrapped by the InvalidArgument errors of this package.
var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrUnknownField        = errors.New("unknown field")
	ErrUnknownRelation     = errors.New("unknown relation")
)

// UnsupportedOperatorError names an operator the compiler does not accept.
type UnsupportedOperatorError struct {
	Operator domain.Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", string(e.Operator))
}

// Is matches ErrUnsupportedOperator.
func (e *UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

func invalidArgument(err error) error {
	return domain.NewAppError(domain.CodeValidation, err.Error(), err)
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
