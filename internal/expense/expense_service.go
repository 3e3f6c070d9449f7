package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-hrpay/internal/audit"
	expenseerrors "go-hrpay/internal/expense/errors"
	"go-hrpay/internal/shared/contextutil"
	"go-hrpay/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCurrency = "INR"

//go:generate mockgen -source=expense_service.go -destination=mock/expense_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateExpenseRequest) (ExpenseResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListFilter) ([]ExpenseResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ExpenseResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (ExpenseResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (ExpenseResponse, error)
	MarkPaid(ctx context.Context, companyID, actorID, id string) (ExpenseResponse, error)
	GetPendingCount(ctx context.Context, companyID string) (int64, error)
}

type ServiceOptions struct {
	Counter counter.Repository
	Audit   audit.Sink
	Now     func() time.Time
}

type service struct {
	repo    Repository
	counter counter.Repository
	audit   audit.Sink
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(repo Repository, opts ServiceOptions, logger ...*zap.Logger) Service {
	l := zap.L().Named("expense.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("expense.service")
	}

	s := &service{
		repo:    repo,
		counter: opts.Counter,
		audit:   opts.Audit,
		now:     opts.Now,
		logger:  l,
	}
	if s.audit == nil {
		s.audit = audit.NewLogSink(l)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateExpenseRequest) (ExpenseResponse, error) {
	s.logger.Debug("create expense requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, actorUUID, err := parseIDs(companyID, actorID)
	if err != nil {
		return ExpenseResponse{}, err
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ExpenseResponse{}, expenseerrors.ErrInvalidEmployeeID
	}
	if !IsValidCategory(req.Category) {
		return ExpenseResponse{}, expenseerrors.ErrInvalidCategory
	}
	if !req.Amount.IsPositive() {
		return ExpenseResponse{}, expenseerrors.ErrInvalidAmount
	}
	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return ExpenseResponse{}, expenseerrors.ErrInvalidDateFormat
	}
	if expenseDate.After(s.now()) {
		return ExpenseResponse{}, expenseerrors.ErrFutureExpenseDate
	}

	belongs, err := s.repo.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create expense employee company check failed", zap.Error(err))
		return ExpenseResponse{}, err
	}
	if !belongs {
		return ExpenseResponse{}, expenseerrors.ErrEmployeeNotInCompany
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	e := &ExpenseClaim{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeUUID,
		Category:    req.Category,
		Amount:      req.Amount.Round(2),
		Currency:    currency,
		Merchant:    req.Merchant,
		ExpenseDate: expenseDate,
		Description: req.Description,
		Status:      StatusPending,
		CreatedBy:   actorUUID,
	}

	if s.counter != nil {
		ref, err := counter.NextReference(ctx, s.counter, companyID, counter.TypeExpenseClaim)
		if err != nil {
			s.logger.Error("create expense reference number failed", zap.Error(err))
			return ExpenseResponse{}, err
		}
		e.ReferenceNo = ref
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create expense persist failed", zap.Error(err))
		return ExpenseResponse{}, err
	}

	resp := mapToResponse(*e)
	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionExpenseCreated,
		EntityType: audit.EntityExpenseClaim,
		EntityID:   e.ID.String(),
		CompanyID:  companyID,
		ActorID:    actorID,
		NewData:    resp,
	})

	s.logger.Info("create expense success",
		zap.String("expense_id", e.ID.String()),
		zap.String("reference_no", e.ReferenceNo),
		zap.String("amount", e.Amount.String()),
	)
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListFilter) ([]ExpenseResponse, error) {
	claims, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]ExpenseResponse, len(claims))
	for i, e := range claims {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ExpenseResponse, error) {
	e, err := s.findClaim(ctx, companyID, id)
	if err != nil {
		return ExpenseResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (ExpenseResponse, error) {
	_, actorUUID, err := parseIDs(companyID, actorID)
	if err != nil {
		return ExpenseResponse{}, err
	}

	now := s.now().UTC()
	return s.transition(ctx, companyID, actorID, id, StatusPending, expenseerrors.ErrInvalidStatus,
		StatusChange{Status: StatusApproved, ApproverID: &actorUUID, ApprovedAt: &now},
		audit.ActionExpenseApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (ExpenseResponse, error) {
	_, actorUUID, err := parseIDs(companyID, actorID)
	if err != nil {
		return ExpenseResponse{}, err
	}
	if strings.TrimSpace(rejectionReason) == "" {
		return ExpenseResponse{}, expenseerrors.ErrRejectionReasonRequired
	}

	now := s.now().UTC()
	return s.transition(ctx, companyID, actorID, id, StatusPending, expenseerrors.ErrInvalidStatus,
		StatusChange{Status: StatusRejected, ApproverID: &actorUUID, ApprovedAt: &now, RejectionReason: &rejectionReason},
		audit.ActionExpenseRejected, map[string]any{"rejection_reason": rejectionReason})
}

func (s *service) MarkPaid(ctx context.Context, companyID, actorID, id string) (ExpenseResponse, error) {
	if _, _, err := parseIDs(companyID, actorID); err != nil {
		return ExpenseResponse{}, err
	}

	now := s.now().UTC()
	return s.transition(ctx, companyID, actorID, id, StatusApproved, expenseerrors.ErrNotApproved,
		StatusChange{Status: StatusPaid, PaidAt: &now},
		audit.ActionExpensePaid, nil)
}

// transition moves a claim from one status to another with a guarded write.
// A claim already past from, or one that moves while the write is in flight,
// yields stateErr.
func (s *service) transition(
	ctx context.Context,
	companyID, actorID, id, from string,
	stateErr error,
	change StatusChange,
	action string,
	metadata map[string]any,
) (ExpenseResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("expense transition requested",
		zap.String("expense_id", id),
		zap.String("to", change.Status),
		zap.String("actor_id", actorID),
	)

	e, err := s.findClaim(ctx, companyID, id)
	if err != nil {
		return ExpenseResponse{}, err
	}
	if e.Status != from {
		return ExpenseResponse{}, stateErr
	}
	if change.ApproverID != nil && (e.EmployeeID == *change.ApproverID || e.CreatedBy == *change.ApproverID) {
		log.Warn("expense self approval blocked",
			zap.String("expense_id", id),
			zap.String("actor_id", actorID),
		)
		return ExpenseResponse{}, expenseerrors.ErrSelfApproval
	}
	before := mapToResponse(*e)

	ok, err := s.repo.UpdateStatusIf(ctx, companyID, id, from, change)
	if err != nil {
		log.Error("expense transition persist failed", zap.String("expense_id", id), zap.Error(err))
		return ExpenseResponse{}, err
	}
	if !ok {
		log.Warn("expense transition lost concurrent update", zap.String("expense_id", id))
		return ExpenseResponse{}, stateErr
	}
	change.apply(e)
	resp := mapToResponse(*e)

	s.recordAudit(ctx, audit.Entry{
		Action:     action,
		EntityType: audit.EntityExpenseClaim,
		EntityID:   id,
		CompanyID:  companyID,
		ActorID:    actorID,
		OldData:    before,
		NewData:    resp,
		Metadata:   metadata,
	})

	log.Info("expense transition success",
		zap.String("expense_id", id),
		zap.String("status", change.Status),
	)
	return resp, nil
}

func (s *service) GetPendingCount(ctx context.Context, companyID string) (int64, error) {
	return s.repo.CountByStatus(ctx, companyID, StatusPending)
}

func (s *service) findClaim(ctx context.Context, companyID, id string) (*ExpenseClaim, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, expenseerrors.ErrInvalidExpenseID
	}
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expenseerrors.ErrExpenseNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *service) recordAudit(ctx context.Context, entry audit.Entry) {
	entry.RequestID = contextutil.GetRequestID(ctx)
	entry.OccurredAt = s.now().UTC()
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error("record audit entry failed",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
	}
}

func parseIDs(companyID, actorID string) (uuid.UUID, uuid.UUID, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, expenseerrors.ErrInvalidCompanyID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, expenseerrors.ErrInvalidActorID
	}
	return company, actor, nil
}

func mapToResponse(e ExpenseClaim) ExpenseResponse {
	resp := ExpenseResponse{
		ID:              e.ID.String(),
		CompanyID:       e.CompanyID.String(),
		EmployeeID:      e.EmployeeID.String(),
		ReferenceNo:     e.ReferenceNo,
		Category:        e.Category,
		Amount:          e.Amount,
		Currency:        e.Currency,
		Merchant:        e.Merchant,
		ExpenseDate:     e.ExpenseDate.Format("2006-01-02"),
		Description:     e.Description,
		Status:          e.Status,
		CreatedBy:       e.CreatedBy.String(),
		RejectionReason: e.RejectionReason,
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	if e.ApproverID != nil {
		v := e.ApproverID.String()
		resp.ApproverID = &v
	}
	if e.ApprovedAt != nil {
		v := e.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if e.PaidAt != nil {
		v := e.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}
