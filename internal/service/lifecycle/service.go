// Package lifecycle 实现求助请求的状态机：认领、接受、拒绝
// 认领通过条件更新保证同一时间只有一个志愿者成功
package lifecycle

import (
	"context"
	"time"

	"carematch_server/internal/dto/event"
	"carematch_server/internal/infrastructure/mailer"
	"carematch_server/internal/infrastructure/metrics"
	"carematch_server/internal/infrastructure/mq"
	"carematch_server/internal/model"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/enum/request_enum"
	"carematch_server/pkg/errorx"

	"go.uber.org/zap"
)

const defaultDonorName = "CareMatch user"

// Store 请求存储，ConditionalUpdate 是唯一的写入方式
type Store interface {
	FindByID(id uint) (*model.HelpRequest, error)
	ConditionalUpdate(id uint, expectedStatus string, fields map[string]any) (int64, error)
}

// Directory 用户查询
type Directory interface {
	FindByID(id uint) (*model.UserInfo, error)
}

// Notifier 通知请求发布者有人认领
type Notifier interface {
	NotifyOwnerOfClaim(ctx context.Context, ownerEmail string, interest mailer.VolunteerInterest) error
}

// Identity 当前操作者，由 HTTP 层从令牌解析后显式传入
type Identity struct {
	ID   uint
	Role string
}

// IsAdmin 是否为管理员
func (i Identity) IsAdmin() bool {
	return i.Role == constants.ROLE_ADMIN
}

// 错误
var (
	ErrRequestNotFound  = errorx.New(errorx.CodeNotFound, "Request not found.")
	ErrRequestClosed    = errorx.New(errorx.CodeInvalidState, "This request is closed.")
	ErrPendingDecision  = errorx.New(errorx.CodeConflict, "This request is pending decision.")
	ErrNotPending       = errorx.New(errorx.CodeInvalidState, "Request is not pending.")
	ErrNotAllowed       = errorx.New(errorx.CodeForbidden, "Not allowed.")
	ErrSelfClaim        = errorx.New(errorx.CodeForbidden, "You cannot contact your own request.")
	ErrOwnerEmail       = errorx.New(errorx.CodeServerBusy, "Request owner email not found.")
	ErrNotificationFail = errorx.New(errorx.CodeNotificationFailed, "Could not send email. Please try again.")
)

// Service 请求状态机
type Service struct {
	store    Store
	users    Directory
	notifier Notifier
	events   mq.Publisher
	now      func() time.Time
}

// NewService 创建状态机服务，events 可以为 nil
func NewService(store Store, users Directory, notifier Notifier, events mq.Publisher) *Service {
	return &Service{
		store:    store,
		users:    users,
		notifier: notifier,
		events:   events,
		now:      time.Now,
	}
}

// Claim 认领请求：open -> in_progress，随后通知发布者
// 通知失败时把请求退回 open，前提是它仍处于 in_progress
func (s *Service) Claim(ctx context.Context, requestID uint, actor Identity, payload ContactPayload) (string, error) {
	req, err := s.load(requestID)
	if err != nil {
		return "", s.fail("claim", err)
	}
	if req.IsOwnedBy(actor.ID) {
		return "", s.fail("claim", ErrSelfClaim)
	}
	switch req.Status {
	case request_enum.StatusClosed:
		return "", s.fail("claim", ErrRequestClosed)
	case request_enum.StatusOpen:
	default:
		return "", s.fail("claim", ErrPendingDecision)
	}

	owner, err := s.users.FindByID(req.UserID)
	if err != nil || owner.Email == "" {
		if err != nil && !errorx.IsNotFound(err) {
			return "", s.fail("claim", err)
		}
		return "", s.fail("claim", ErrOwnerEmail)
	}

	contact := s.pendingContact(actor, payload)
	affected, err := s.store.ConditionalUpdate(req.ID, request_enum.StatusOpen, model.PendingFields(contact))
	if err != nil {
		return "", s.fail("claim", err)
	}
	if affected == 0 {
		return "", s.fail("claim", ErrPendingDecision)
	}

	interest := mailer.VolunteerInterest{
		RequestTitle:    req.Title,
		RequestRegion:   req.Region,
		RequestCategory: req.Category,
		DonorName:       contact.Name,
		DonorEmail:      contact.Email,
		DonorPhone:      contact.Phone,
		Message:         contact.Message,
	}
	if err := s.notifier.NotifyOwnerOfClaim(ctx, owner.Email, interest); err != nil {
		zap.L().Error("notify owner of claim failed",
			zap.Uint("request_id", req.ID),
			zap.Error(err),
		)
		s.rollbackClaim(ctx, req)
		return "", s.fail("claim", ErrNotificationFail)
	}

	s.publish(ctx, event.TypeClaimed, req, request_enum.StatusInProgress)
	metrics.LifecycleTransitions.WithLabelValues("claim", "success").Inc()
	return request_enum.StatusInProgress, nil
}

// Accept 接受认领：in_progress -> closed，并清空认领信息
func (s *Service) Accept(ctx context.Context, requestID uint, actor Identity) (string, error) {
	req, err := s.loadForDecision(requestID, actor)
	if err != nil {
		return "", s.fail("accept", err)
	}
	affected, err := s.store.ConditionalUpdate(req.ID, request_enum.StatusInProgress, model.ClearPendingFields(request_enum.StatusClosed))
	if err != nil {
		return "", s.fail("accept", err)
	}
	if affected == 0 {
		return "", s.fail("accept", ErrNotPending)
	}
	s.publish(ctx, event.TypeAccepted, req, request_enum.StatusClosed)
	metrics.LifecycleTransitions.WithLabelValues("accept", "success").Inc()
	return request_enum.StatusClosed, nil
}

// Reject 拒绝认领：in_progress -> open，并清空认领信息
func (s *Service) Reject(ctx context.Context, requestID uint, actor Identity) (string, error) {
	req, err := s.loadForDecision(requestID, actor)
	if err != nil {
		return "", s.fail("reject", err)
	}
	affected, err := s.store.ConditionalUpdate(req.ID, request_enum.StatusInProgress, model.ClearPendingFields(request_enum.StatusOpen))
	if err != nil {
		return "", s.fail("reject", err)
	}
	if affected == 0 {
		return "", s.fail("reject", ErrNotPending)
	}
	s.publish(ctx, event.TypeRejected, req, request_enum.StatusOpen)
	metrics.LifecycleTransitions.WithLabelValues("reject", "success").Inc()
	return request_enum.StatusOpen, nil
}

// loadForDecision 接受/拒绝的公共前置检查：存在、有权限、处于 in_progress
func (s *Service) loadForDecision(requestID uint, actor Identity) (*model.HelpRequest, error) {
	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsOwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, ErrNotAllowed
	}
	if req.Status != request_enum.StatusInProgress {
		return nil, ErrNotPending
	}
	return req, nil
}

func (s *Service) load(requestID uint) (*model.HelpRequest, error) {
	req, err := s.store.FindByID(requestID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// pendingContact 表单未填的姓名和邮箱取自操作者账号
func (s *Service) pendingContact(actor Identity, p ContactPayload) model.PendingContact {
	c := model.PendingContact{
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Message:   p.Message,
		ClaimedAt: s.now(),
	}
	if c.Name == "" || c.Email == "" {
		if donor, err := s.users.FindByID(actor.ID); err == nil {
			if c.Name == "" {
				c.Name = donor.FullName
			}
			if c.Email == "" {
				c.Email = donor.Email
			}
		}
	}
	if c.Name == "" {
		c.Name = defaultDonorName
	}
	return c
}

// rollbackClaim 撤销认领；状态已被别人改变时不做任何修改
func (s *Service) rollbackClaim(ctx context.Context, req *model.HelpRequest) {
	affected, err := s.store.ConditionalUpdate(req.ID, request_enum.StatusInProgress, model.ClearPendingFields(request_enum.StatusOpen))
	switch {
	case err != nil:
		zap.L().Error("rollback claim failed", zap.Uint("request_id", req.ID), zap.Error(err))
	case affected == 0:
		zap.L().Info("rollback claim skipped, state moved on", zap.Uint("request_id", req.ID))
	default:
		s.publish(ctx, event.TypeClaimRolledBack, req, request_enum.StatusOpen)
	}
}

// publish 发布状态事件，失败只记录日志
func (s *Service) publish(ctx context.Context, typ string, req *model.HelpRequest, status string) {
	if s.events == nil {
		return
	}
	ev := event.LifecycleEvent{
		Type:      typ,
		RequestID: req.ID,
		OwnerID:   req.UserID,
		Status:    status,
		At:        s.now(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		metrics.EventPublishFailures.Inc()
		zap.L().Warn("publish lifecycle event failed",
			zap.String("type", typ),
			zap.Uint("request_id", req.ID),
			zap.Error(err),
		)
	}
}

// fail 记录指标和日志；冲突类结果属于正常业务分支，只记 Info
func (s *Service) fail(op string, err error) error {
	code := errorx.GetCode(err)
	metrics.LifecycleTransitions.WithLabelValues(op, outcome(code)).Inc()
	switch code {
	case errorx.CodeConflict, errorx.CodeInvalidState, errorx.CodeNotFound, errorx.CodeForbidden:
		zap.L().Info("lifecycle operation rejected", zap.String("op", op), zap.String("reason", err.Error()))
	case errorx.CodeNotificationFailed:
	default:
		zap.L().Error("lifecycle operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

func outcome(code int) string {
	switch code {
	case errorx.CodeConflict:
		return "conflict"
	case errorx.CodeInvalidState:
		return "invalid_state"
	case errorx.CodeNotFound:
		return "not_found"
	case errorx.CodeForbidden:
		return "forbidden"
	case errorx.CodeNotificationFailed:
		return "notification_failed"
	default:
		return "error"
	}
}
