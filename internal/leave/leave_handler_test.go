package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrpay/internal/leave"
	leaveerrors "go-hrpay/internal/leave/errors"
	"go-hrpay/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	leave.Service

	createFn  func(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn  func(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.LeaveResponse, error)
	approveFn func(ctx context.Context, companyID, actorID, id string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, companyID, actorID, id, reason string) (leave.LeaveResponse, error)
	pendingFn func(ctx context.Context, companyID string) (int64, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, companyID, filter)
}
func (f *fakeLeaveService) Approve(ctx context.Context, companyID, actorID, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, companyID, actorID, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, companyID, actorID, id, reason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, companyID, actorID, id, reason)
}
func (f *fakeLeaveService) GetPendingCount(ctx context.Context, companyID string) (int64, error) {
	return f.pendingFn(ctx, companyID)
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
	} `json:"meta"`
}

func newLeaveContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", "company-1")
	c.Set("employee_id", "emp-1")
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "company-1", companyID)
				assert.Equal(t, "emp-1", actorID)
				assert.Equal(t, leave.TypeSick, req.LeaveType)
				return leave.LeaveResponse{ID: "leave-1", Status: leave.StatusPending, TotalDays: days(2)}, nil
			},
		}
		c, w := newLeaveContext(http.MethodPost, "/leaves", map[string]any{
			"employee_id": "0b8f1f38-7c0e-4a8e-9d55-0d4b8cf1a4f1",
			"leave_type":  leave.TypeSick,
			"start_date":  "2024-10-01",
			"end_date":    "2024-10-02",
		})

		leave.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "leave-1", got.ID)
	})

	t.Run("unknown leave type is rejected at binding", func(t *testing.T) {
		svc := &fakeLeaveService{}
		c, w := newLeaveContext(http.MethodPost, "/leaves", map[string]any{
			"employee_id": "0b8f1f38-7c0e-4a8e-9d55-0d4b8cf1a4f1",
			"leave_type":  "sabbatical",
			"start_date":  "2024-10-01",
			"end_date":    "2024-10-02",
		})

		leave.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"already processed", leaveerrors.ErrInvalidStatus, http.StatusConflict, "INVALID_STATE"},
		{"balance contention", leaveerrors.ErrBalanceUpdateFailed.WithCause(fmt.Errorf("%w: deduct gave up after 3 attempts", leave.ErrBalanceConflict)), http.StatusServiceUnavailable, "BALANCE_UPDATE_FAILED"},
		{"not found", leaveerrors.ErrLeaveNotFound, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeLeaveService{
				approveFn: func(ctx context.Context, companyID, actorID, id string) (leave.LeaveResponse, error) {
					assert.Equal(t, "leave-1", id)
					assert.Equal(t, "emp-1", actorID)
					if tc.err != nil {
						return leave.LeaveResponse{}, tc.err
					}
					return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
				},
			}
			c, w := newLeaveContext(http.MethodPost, "/leaves/leave-1/approve", nil)
			c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

			leave.NewHandler(svc).Approve(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			if tc.wantCode != "" {
				assert.False(t, env.Ok)
				assert.Equal(t, tc.wantCode, env.Error.Code)
			} else {
				assert.True(t, env.Ok)
			}
		})
	}
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("reason is forwarded", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, companyID, actorID, id, reason string) (leave.LeaveResponse, error) {
				assert.Equal(t, "short staffed", reason)
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected, RejectionReason: &reason}, nil
			},
		}
		c, w := newLeaveContext(http.MethodPost, "/leaves/leave-1/reject", map[string]string{"rejection_reason": "short staffed"})
		c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

		leave.NewHandler(svc).Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing reason", func(t *testing.T) {
		c, w := newLeaveContext(http.MethodPost, "/leaves/leave-1/reject", map[string]string{})
		c.Params = gin.Params{{Key: "id", Value: "leave-1"}}

		leave.NewHandler(&fakeLeaveService{}).Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	svc := &fakeLeaveService{
		getAllFn: func(ctx context.Context, companyID string, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
			assert.Equal(t, leave.StatusPending, filter.Status)
			out := make([]leave.LeaveResponse, 25)
			for i := range out {
				out[i] = leave.LeaveResponse{ID: fmt.Sprintf("leave-%d", i)}
			}
			return out, nil
		},
	}
	c, w := newLeaveContext(http.MethodGet, "/leaves?status=pending&page=3&page_size=10", nil)

	leave.NewHandler(svc).GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var got []leave.LeaveResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 5)
	assert.Equal(t, "leave-20", got[0].ID)
	assert.Equal(t, int64(25), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.Page)
}

func TestLeaveHandler_GetPendingCount(t *testing.T) {
	for _, tc := range []struct {
		role        string
		wantCompany string
	}{
		{"hr_manager", "company-1"},
		{middleware.RoleSuperAdmin, ""},
	} {
		t.Run(tc.role, func(t *testing.T) {
			svc := &fakeLeaveService{
				pendingFn: func(ctx context.Context, companyID string) (int64, error) {
					assert.Equal(t, tc.wantCompany, companyID)
					return 4, nil
				},
			}
			c, w := newLeaveContext(http.MethodGet, "/leaves/pending-count", nil)
			c.Set("role", tc.role)

			leave.NewHandler(svc).GetPendingCount(c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"pending":4}`, string(decodeEnvelope(t, w).Data))
		})
	}
}
