package leave

import (
	"context"
	"errors"
	"time"

	"go-hrpay/internal/audit"
	"go-hrpay/internal/events"
	leaveerrors "go-hrpay/internal/leave/errors"
	"go-hrpay/internal/shared/contextutil"
	"go-hrpay/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	GetEmployeeLeaveRequests(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	GetBalances(ctx context.Context, companyID, employeeID string) ([]BalanceResponse, error)
	GetPendingCount(ctx context.Context, companyID string) (int64, error)
	GetStats(ctx context.Context, companyID string) (LeaveStats, error)
}

// ServiceOptions wires the optional collaborators. Nil fields disable the
// matching side effect.
type ServiceOptions struct {
	Redis           *redis.Client
	CacheTTL        time.Duration
	Counter         counter.Repository
	Audit           audit.Sink
	Events          EventPublisher
	ReleaseOnReject bool
	Now             func() time.Time
}

type service struct {
	repo     Repository
	balances BalanceRepository
	mutator  BalanceMutator
	cache    *balanceCache
	sf       *singleflight.Group
	counter  counter.Repository
	audit    audit.Sink
	events   EventPublisher
	opts     ServiceOptions
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	balances BalanceRepository,
	mutator BalanceMutator,
	opts ServiceOptions,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}

	s := &service{
		repo:     repo,
		balances: balances,
		mutator:  mutator,
		cache:    newBalanceCache(opts.Redis, opts.CacheTTL, l),
		sf:       &singleflight.Group{},
		counter:  opts.Counter,
		audit:    opts.Audit,
		events:   opts.Events,
		opts:     opts,
		now:      opts.Now,
		logger:   l,
	}
	if s.audit == nil {
		s.audit = audit.NewLogSink(l)
	}
	if s.events == nil {
		s.events = noopEventPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	in, err := validateCreateRequest(companyID, actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	belongs, err := s.repo.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave employee company check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, in.startDate, in.endDate)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     in.companyID,
		EmployeeID:    in.employeeID,
		LeaveType:     req.LeaveType,
		StartDate:     in.startDate,
		EndDate:       in.endDate,
		TotalDays:     TotalDays(in.startDate, in.endDate, req.IsHalfDay),
		IsHalfDay:     req.IsHalfDay,
		HalfDayPeriod: in.halfDayPeriod,
		Reason:        req.Reason,
		Status:        StatusPending,
		CreatedBy:     in.actorID,
	}

	if s.counter != nil {
		ref, err := counter.NextReference(ctx, s.counter, companyID, counter.TypeLeaveRequest)
		if err != nil {
			s.logger.Error("create leave reference number failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		l.ReferenceNo = ref
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	mut, err := s.mutator.Reserve(ctx, req.EmployeeID, req.LeaveType, l.TotalDays)
	if err != nil {
		s.logger.Warn("reserve leave balance failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("employee_id", req.EmployeeID),
			zap.String("days", l.TotalDays.String()),
			zap.Error(err),
		)
	} else if mut.Applied {
		s.cache.invalidate(ctx, req.EmployeeID)
	}

	resp := mapToResponse(*l)
	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLeaveCreated,
		EntityType: audit.EntityLeaveRequest,
		EntityID:   l.ID.String(),
		CompanyID:  companyID,
		ActorID:    actorID,
		NewData:    resp,
	})

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("reference_no", l.ReferenceNo),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListFilter) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) GetEmployeeLeaveRequests(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	return s.GetAll(ctx, companyID, ListFilter{EmployeeID: employeeID})
}

// Approve deducts the balance first and then moves the request out of
// pending. If another approver wins the status write, the deduction is
// reverted and ErrInvalidStatus is returned.
func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	s.logger.Debug("approve leave requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := parseActor(companyID, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}

	l, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("approve leave not pending",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	before := mapToResponse(*l)

	employeeID := l.EmployeeID.String()
	mut, err := s.mutator.Deduct(ctx, employeeID, l.LeaveType, l.TotalDays)
	if err != nil {
		s.logger.Error("approve leave balance deduction failed",
			zap.String("leave_id", id),
			zap.String("employee_id", employeeID),
			zap.Int("attempts", mut.Attempts),
			zap.Error(err),
		)
		return LeaveResponse{}, leaveerrors.ErrBalanceUpdateFailed.WithCause(err)
	}

	now := s.now().UTC()
	change := StatusChange{Status: StatusApproved, ApprovedBy: &actorUUID, ApprovedAt: &now}
	ok, err := s.repo.UpdateStatusIfPending(ctx, companyID, id, change)
	if err != nil || !ok {
		s.rollbackDeduction(ctx, l, actorID, mut)
		if err != nil {
			s.logger.Error("approve leave persist failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
		s.logger.Warn("approve leave lost concurrent update", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}

	if mut.Applied {
		s.cache.invalidate(ctx, employeeID)
	}
	change.apply(l)
	resp := mapToResponse(*l)

	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLeaveApproved,
		EntityType: audit.EntityLeaveRequest,
		EntityID:   id,
		CompanyID:  companyID,
		ActorID:    actorID,
		OldData:    before,
		NewData:    resp,
		Metadata:   mutationMetadata(mut),
	})

	if err := s.events.PublishLeaveApproved(ctx, events.LeaveLifecycleEvent{
		RequestID:      contextutil.GetRequestID(ctx),
		LeaveRequestID: id,
		CompanyID:      companyID,
		EmployeeID:     employeeID,
		LeaveType:      l.LeaveType,
		StartDate:      resp.StartDate,
		EndDate:        resp.EndDate,
		TotalDays:      l.TotalDays.String(),
		OccurredAt:     now,
	}); err != nil {
		s.logger.Error("publish leave approved failed", zap.String("leave_id", id), zap.Error(err))
	}

	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("employee_id", employeeID),
		zap.Bool("balance_applied", mut.Applied),
	)
	return resp, nil
}

func (s *service) rollbackDeduction(ctx context.Context, l *LeaveRequest, actorID string, mut Mutation) {
	if !mut.Applied {
		return
	}

	reverted, err := s.mutator.Revert(ctx, mut)
	meta := mutationMetadata(mut)
	meta["leave_request_id"] = l.ID.String()
	if err != nil {
		meta["rollback_error"] = err.Error()
		s.logger.Error("rollback leave balance failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("balance_id", mut.BalanceID.String()),
			zap.Error(err),
		)
	} else {
		s.cache.invalidate(ctx, l.EmployeeID.String())
		s.logger.Warn("leave balance deduction rolled back",
			zap.String("leave_id", l.ID.String()),
			zap.String("balance_id", mut.BalanceID.String()),
		)
	}

	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLeaveBalanceRollback,
		EntityType: audit.EntityLeaveBalance,
		EntityID:   mut.BalanceID.String(),
		CompanyID:  l.CompanyID.String(),
		ActorID:    actorID,
		OldData:    mut.After,
		NewData:    reverted.After,
		Metadata:   meta,
	})
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	s.logger.Debug("reject leave requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := parseActor(companyID, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if rejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	l, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	before := mapToResponse(*l)

	now := s.now().UTC()
	change := StatusChange{
		Status:          StatusRejected,
		ApprovedBy:      &actorUUID,
		ApprovedAt:      &now,
		RejectionReason: &rejectionReason,
	}
	ok, err := s.repo.UpdateStatusIfPending(ctx, companyID, id, change)
	if err != nil {
		s.logger.Error("reject leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	change.apply(l)

	if s.opts.ReleaseOnReject {
		s.releaseReservation(ctx, l, "reject")
	}

	resp := mapToResponse(*l)
	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLeaveRejected,
		EntityType: audit.EntityLeaveRequest,
		EntityID:   id,
		CompanyID:  companyID,
		ActorID:    actorID,
		OldData:    before,
		NewData:    resp,
		Metadata:   map[string]any{"rejection_reason": rejectionReason},
	})

	s.logger.Info("reject leave success", zap.String("leave_id", id))
	return resp, nil
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
	)

	if _, err := parseActor(companyID, actorID); err != nil {
		return LeaveResponse{}, err
	}

	l, err := s.findRequest(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if actorID != l.EmployeeID.String() && actorID != l.CreatedBy.String() {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}
	before := mapToResponse(*l)

	now := s.now().UTC()
	change := StatusChange{Status: StatusCancelled, CancelledAt: &now}
	ok, err := s.repo.UpdateStatusIfPending(ctx, companyID, id, change)
	if err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}
	change.apply(l)

	s.releaseReservation(ctx, l, "cancel")

	resp := mapToResponse(*l)
	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLeaveCancelled,
		EntityType: audit.EntityLeaveRequest,
		EntityID:   id,
		CompanyID:  companyID,
		ActorID:    actorID,
		OldData:    before,
		NewData:    resp,
	})

	s.logger.Info("cancel leave success", zap.String("leave_id", id))
	return resp, nil
}

// releaseReservation is best effort; the status change has already been
// committed.
func (s *service) releaseReservation(ctx context.Context, l *LeaveRequest, reason string) {
	employeeID := l.EmployeeID.String()
	mut, err := s.mutator.Release(ctx, employeeID, l.LeaveType, l.TotalDays)
	if err != nil {
		s.logger.Warn("release leave balance failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("employee_id", employeeID),
			zap.String("trigger", reason),
			zap.Error(err),
		)
		return
	}
	if mut.Applied {
		s.cache.invalidate(ctx, employeeID)
	}
}

func (s *service) GetBalances(ctx context.Context, companyID, employeeID string) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	if companyID != "" {
		belongs, err := s.repo.EmployeeBelongsToCompany(ctx, companyID, employeeID)
		if err != nil {
			return nil, err
		}
		if !belongs {
			return nil, leaveerrors.ErrEmployeeNotInCompany
		}
	}

	gen, cacheable := s.cache.generation(ctx, employeeID)
	if cacheable {
		if cached, ok := s.cache.get(ctx, employeeID, gen); ok {
			return cached, nil
		}
	}

	// the shared load must outlive whichever caller started it
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(BalanceCacheKey(employeeID, gen), func() (interface{}, error) {
		balances, err := s.balances.FindAllCurrent(loadCtx, employeeID, FinancialYearLabels(s.now()))
		if err != nil {
			return nil, err
		}
		resp := mapToBalanceListResponse(firstPerLeaveType(balances))
		if cacheable {
			s.cache.set(loadCtx, employeeID, gen, resp)
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get leave balances failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return v.([]BalanceResponse), nil
}

func (s *service) GetPendingCount(ctx context.Context, companyID string) (int64, error) {
	stats, err := s.GetStats(ctx, companyID)
	if err != nil {
		return 0, err
	}
	return stats.Pending, nil
}

// GetStats counts requests per status. An empty companyID aggregates every
// company.
func (s *service) GetStats(ctx context.Context, companyID string) (LeaveStats, error) {
	counts, err := s.repo.CountByStatus(ctx, companyID)
	if err != nil {
		return LeaveStats{}, err
	}

	var stats LeaveStats
	for _, c := range counts {
		stats.Total += c.Count
		switch c.Status {
		case StatusPending:
			stats.Pending = c.Count
		case StatusApproved:
			stats.Approved = c.Count
		case StatusRejected:
			stats.Rejected = c.Count
		case StatusCancelled:
			stats.Cancelled = c.Count
		}
	}
	return stats, nil
}

func (s *service) findRequest(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
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

// TotalDays counts both ends of the range; a half day is always 0.5.
func TotalDays(start, end time.Time, isHalfDay bool) decimal.Decimal {
	if isHalfDay {
		return halfDay
	}
	return decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
}

type createInput struct {
	companyID     uuid.UUID
	employeeID    uuid.UUID
	actorID       uuid.UUID
	startDate     time.Time
	endDate       time.Time
	halfDayPeriod *string
}

func validateCreateRequest(companyID, actorID string, req CreateLeaveRequest) (createInput, error) {
	var in createInput
	var err error

	if in.companyID, err = uuid.Parse(companyID); err != nil {
		return in, leaveerrors.ErrInvalidCompanyID
	}
	if in.employeeID, err = uuid.Parse(req.EmployeeID); err != nil {
		return in, leaveerrors.ErrInvalidEmployeeID
	}
	if in.actorID, err = uuid.Parse(actorID); err != nil {
		return in, leaveerrors.ErrInvalidActorID
	}
	if !IsValidLeaveType(req.LeaveType) {
		return in, leaveerrors.ErrInvalidLeaveType
	}
	if in.startDate, err = parseDate(req.StartDate); err != nil {
		return in, err
	}
	if in.endDate, err = parseDate(req.EndDate); err != nil {
		return in, err
	}
	if in.startDate.After(in.endDate) {
		return in, leaveerrors.ErrInvalidDateRange
	}

	if req.IsHalfDay {
		if !in.startDate.Equal(in.endDate) {
			return in, leaveerrors.ErrInvalidHalfDay
		}
		if req.HalfDayPeriod == nil ||
			(*req.HalfDayPeriod != HalfDayFirst && *req.HalfDayPeriod != HalfDaySecond) {
			return in, leaveerrors.ErrInvalidHalfDayPeriod
		}
		in.halfDayPeriod = req.HalfDayPeriod
	}
	return in, nil
}

func parseActor(companyID, actorID string) (uuid.UUID, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidCompanyID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidActorID
	}
	return actor, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mutationMetadata(m Mutation) map[string]any {
	meta := map[string]any{
		"balance_applied": m.Applied,
		"attempts":        m.Attempts,
	}
	if m.Applied {
		meta["balance_id"] = m.BalanceID.String()
		meta["taken_before"] = m.Before.Taken.String()
		meta["taken_after"] = m.After.Taken.String()
		meta["pending_before"] = m.Before.Pending.String()
		meta["pending_after"] = m.After.Pending.String()
	}
	return meta
}

func firstPerLeaveType(balances []LeaveBalance) []LeaveBalance {
	seen := make(map[string]struct{}, len(balances))
	out := make([]LeaveBalance, 0, len(balances))
	for _, b := range balances {
		if _, ok := seen[b.LeaveType]; ok {
			continue
		}
		seen[b.LeaveType] = struct{}{}
		out = append(out, b)
	}
	return out
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		CompanyID:       l.CompanyID.String(),
		EmployeeID:      l.EmployeeID.String(),
		ReferenceNo:     l.ReferenceNo,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		TotalDays:       l.TotalDays,
		IsHalfDay:       l.IsHalfDay,
		HalfDayPeriod:   l.HalfDayPeriod,
		Reason:          l.Reason,
		Status:          l.Status,
		CreatedBy:       l.CreatedBy.String(),
		RejectionReason: l.RejectionReason,
	}
	if !l.CreatedAt.IsZero() {
		resp.CreatedAt = l.CreatedAt.Format(time.RFC3339)
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if l.CancelledAt != nil {
		v := l.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func mapToBalanceListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = BalanceResponse{
			ID:             b.ID.String(),
			EmployeeID:     b.EmployeeID.String(),
			LeaveType:      b.LeaveType,
			FinancialYear:  b.FinancialYear,
			OpeningBalance: b.OpeningBalance,
			Accrued:        b.Accrued,
			Taken:          b.Taken,
			Pending:        b.Pending,
			Available:      b.Available(),
			Version:        b.Version,
		}
	}
	return resp
}
