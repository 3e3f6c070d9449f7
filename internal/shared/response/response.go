package response

import (
	"net/http"

	"go-hrpay/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PaginationMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// NormalizePage applies the default page size and caps it at MaxPageSize.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize < 1:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func NewPaginationMeta(total int64, page, pageSize int) PaginationMeta {
	page, pageSize = NormalizePage(page, pageSize)
	return PaginationMeta{
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
		Page:       page,
		PageSize:   pageSize,
	}
}

// Paginate returns the [start, end) window of page within n items.
func Paginate(n, page, pageSize int) (start, end int) {
	page, pageSize = NormalizePage(page, pageSize)
	start = min((page-1)*pageSize, n)
	end = min(start+pageSize, n)
	return start, end
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

type ApiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data any, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{Ok: true, Data: data, Meta: meta})
}

func Error(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, ApiEnvelope{Error: &ErrorBody{Code: code, Message: message, Details: details}})
}

// BindError answers a failed ShouldBind with 400 VALIDATION_ERROR, the first
// failure as message and every failed field in details.
func BindError(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, apperror.CodeValidationError,
		apperror.MapValidationError(err).Error(), apperror.ValidationDetails(err))
}
