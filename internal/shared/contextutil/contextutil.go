// Package contextutil carries per-request identity and logging through
// context.Context so services and repositories stay free of gin.
package contextutil

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	requestInfoKey ctxKey = iota
	loggerKey
)

// RequestInfo identifies the caller of one HTTP request.
type RequestInfo struct {
	RequestID  string
	UserID     string
	EmployeeID string
	CompanyID  string
}

// Fields renders the non-empty ids as zap fields.
func (ri RequestInfo) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 4)
	add := func(key, val string) {
		if val != "" {
			fields = append(fields, zap.String(key, val))
		}
	}
	add("request_id", ri.RequestID)
	add("user_id", ri.UserID)
	add("employee_id", ri.EmployeeID)
	add("company_id", ri.CompanyID)
	return fields
}

func WithRequestInfo(ctx context.Context, ri RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey, ri)
}

// Info returns the RequestInfo stored on ctx, or the zero value.
func Info(ctx context.Context) RequestInfo {
	if ctx == nil {
		return RequestInfo{}
	}
	ri, _ := ctx.Value(requestInfoKey).(RequestInfo)
	return ri
}

// update copies the stored RequestInfo, applies fn and stores the result.
func update(ctx context.Context, fn func(*RequestInfo)) context.Context {
	ri := Info(ctx)
	fn(&ri)
	return WithRequestInfo(ctx, ri)
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return update(ctx, func(ri *RequestInfo) { ri.RequestID = rid })
}

func WithUserID(ctx context.Context, uid string) context.Context {
	return update(ctx, func(ri *RequestInfo) { ri.UserID = uid })
}

func WithCompanyID(ctx context.Context, cid string) context.Context {
	return update(ctx, func(ri *RequestInfo) { ri.CompanyID = cid })
}

func GetRequestID(ctx context.Context) string { return Info(ctx).RequestID }

func GetCompanyID(ctx context.Context) string { return Info(ctx).CompanyID }

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, then fallback, then a nop
// logger. It never returns nil.
func GetLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback.With(Info(ctx).Fields()...)
	}
	return zap.NewNop()
}
