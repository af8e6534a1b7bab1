package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/celebreapp/celebre/internal/auth/pin"
	checkoutdomain "github.com/celebreapp/celebre/internal/checkout/domain"
	contractdomain "github.com/celebreapp/celebre/internal/contract/domain"
	giftdomain "github.com/celebreapp/celebre/internal/gift/domain"
	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
	photodomain "github.com/celebreapp/celebre/internal/photo/domain"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, pin.ErrWrongPIN),
		errors.Is(err, pin.ErrSessionExpired):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, pin.ErrPINDisabled):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isLimitError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "limit_reached",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, guestdomain.ErrInvalidGuest),
		errors.Is(err, contractdomain.ErrInvalidContract),
		errors.Is(err, photodomain.ErrInvalidUpload),
		errors.Is(err, photodomain.ErrInvalidComment),
		errors.Is(err, photodomain.ErrVideoTooLong),
		errors.Is(err, giftdomain.ErrInvalidGift),
		errors.Is(err, giftdomain.ErrInvalidOrderRef),
		errors.Is(err, checkoutdomain.ErrProviderNotFound),
		errors.Is(err, checkoutdomain.ErrInvalidPayload),
		errors.Is(err, checkoutdomain.ErrInvalidConfig):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	var checkedIn *guestdomain.AlreadyCheckedInError
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, guestdomain.ErrCodeExists),
		errors.Is(err, giftdomain.ErrGiftUnavailable),
		errors.As(err, &checkedIn):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	var checkedIn *guestdomain.AlreadyCheckedInError
	if errors.As(err, &checkedIn) {
		return checkedIn.Error()
	}
	return "conflict"
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, guestdomain.ErrGuestNotFound),
		errors.Is(err, contractdomain.ErrContractNotFound),
		errors.Is(err, photodomain.ErrPhotoNotFound),
		errors.Is(err, giftdomain.ErrGiftNotFound),
		errors.Is(err, tenantdomain.ErrTenantNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isLimitError(err error) bool {
	switch {
	case errors.Is(err, guestdomain.ErrGuestLimit),
		errors.Is(err, photodomain.ErrPhotoLimit),
		errors.Is(err, photodomain.ErrVideoLimit):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	_ = status
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
