package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrpay/internal/expense"
	expenseerrors "go-hrpay/internal/expense/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeExpenseService struct {
	expense.Service
	approveFn func(ctx context.Context, companyID, actorID, id string) (expense.ExpenseResponse, error)
	createFn  func(ctx context.Context, companyID, actorID string, req expense.CreateExpenseRequest) (expense.ExpenseResponse, error)
}

func (f *fakeExpenseService) Approve(ctx context.Context, companyID, actorID, id string) (expense.ExpenseResponse, error) {
	return f.approveFn(ctx, companyID, actorID, id)
}
func (f *fakeExpenseService) Create(ctx context.Context, companyID, actorID string, req expense.CreateExpenseRequest) (expense.ExpenseResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}

func newExpenseContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", "company-1")
	c.Set("employee_id", "emp-1")
	return c, w
}

func TestExpenseHandler_Create(t *testing.T) {
	svc := &fakeExpenseService{
		createFn: func(ctx context.Context, companyID, actorID string, req expense.CreateExpenseRequest) (expense.ExpenseResponse, error) {
			assert.Equal(t, "99.90", req.Amount.StringFixed(2))
			return expense.ExpenseResponse{ID: "exp-1", Amount: req.Amount, Status: expense.StatusPending}, nil
		},
	}
	c, w := newExpenseContext(http.MethodPost, "/expenses", `{
		"employee_id": "0b8f1f38-7c0e-4a8e-9d55-0d4b8cf1a4f1",
		"category": "travel",
		"amount": "99.9",
		"expense_date": "2024-09-01"
	}`)

	expense.NewHandler(svc).Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var env struct {
		Ok   bool                    `json:"ok"`
		Data expense.ExpenseResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	assert.Equal(t, "exp-1", env.Data.ID)
}

func TestExpenseHandler_Approve(t *testing.T) {
	for _, tc := range []struct {
		name     string
		err      error
		want     int
		wantCode string
	}{
		{"self approval", expenseerrors.ErrSelfApproval, http.StatusForbidden, "SELF_APPROVAL"},
		{"already processed", expenseerrors.ErrInvalidStatus, http.StatusConflict, "INVALID_STATE"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeExpenseService{
				approveFn: func(context.Context, string, string, string) (expense.ExpenseResponse, error) {
					return expense.ExpenseResponse{}, tc.err
				},
			}
			c, w := newExpenseContext(http.MethodPost, "/expenses/exp-1/approve", "")
			c.Params = gin.Params{{Key: "id", Value: "exp-1"}}

			expense.NewHandler(svc).Approve(c)

			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantCode)
		})
	}
}
