package contextutil_test

import (
	"context"
	"testing"

	"go-hrpay/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestInfo(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, contextutil.RequestInfo{}, contextutil.Info(ctx))

	ctx = contextutil.WithRequestID(ctx, "req-1")
	ctx = contextutil.WithUserID(ctx, "user-1")
	ctx = contextutil.WithCompanyID(ctx, "company-1")

	ri := contextutil.Info(ctx)
	assert.Equal(t, "req-1", ri.RequestID)
	assert.Equal(t, "user-1", ri.UserID)
	assert.Equal(t, "company-1", ri.CompanyID)
	assert.Equal(t, "req-1", contextutil.GetRequestID(ctx))
	assert.Equal(t, "company-1", contextutil.GetCompanyID(ctx))
	assert.Len(t, ri.Fields(), 3)
}

func TestWithRequestInfo_DoesNotLeakIntoParent(t *testing.T) {
	parent := contextutil.WithRequestID(context.Background(), "req-1")
	child := contextutil.WithCompanyID(parent, "company-1")

	assert.Empty(t, contextutil.GetCompanyID(parent))
	assert.Equal(t, "req-1", contextutil.GetRequestID(child))
}

func TestGetLogger(t *testing.T) {
	scoped := zap.NewNop().Named("scoped")

	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), nil))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), zap.NewNop()))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
