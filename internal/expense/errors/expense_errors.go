package expenseerrors

import (
	"net/http"

	"go-hrpay/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidExpenseID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid expense claim id",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"invalid expense category",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a positive number",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, use YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrFutureExpenseDate = apperror.New(
		apperror.CodeInvalidInput,
		"expense date cannot be in the future",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason is required",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to company",
		http.StatusBadRequest,
	)

	ErrExpenseNotFound = apperror.New(
		apperror.CodeNotFound,
		"expense claim not found",
		http.StatusNotFound,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidState,
		"expense claim already processed",
		http.StatusConflict,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"only approved expense claims can be marked as paid",
		http.StatusConflict,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeSelfApproval,
		"you cannot decide on your own expense claim",
		http.StatusForbidden,
	)
)
