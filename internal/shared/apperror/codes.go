package apperror

// Machine-readable values of the envelope's error.code field. Clients switch
// on these, so existing values never change meaning.
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"

	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInvalidUserID = "INVALID_USER_ID"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeForbidden     = "FORBIDDEN"

	CodeRateLimited = "RATE_LIMITED"
	CodeProcessing  = "PROCESSING"

	// approval workflow
	CodeInvalidState        = "INVALID_STATE"
	CodeSelfApproval        = "SELF_APPROVAL"
	CodeBalanceUpdateFailed = "BALANCE_UPDATE_FAILED"

	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
