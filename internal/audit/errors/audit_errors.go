package auditerrors

import (
	"net/http"

	"go-hrpay/internal/shared/apperror"
)

var (
	ErrInvalidEntityType = apperror.New(
		apperror.CodeInvalidInput,
		"entity_type is required",
		http.StatusBadRequest,
	)
	ErrInvalidEntityID = apperror.New(
		apperror.CodeInvalidInput,
		"entity_id is required",
		http.StatusBadRequest,
	)
)
