// Package request 处理求助请求的发布、查询和状态修改
package request

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"carematch_server/internal/dao/mysql"
	"carematch_server/internal/dto/event"
	dtoreq "carematch_server/internal/dto/request"
	"carematch_server/internal/dto/respond"
	"carematch_server/internal/infrastructure/metrics"
	"carematch_server/internal/infrastructure/mq"
	"carematch_server/internal/model"
	"carematch_server/internal/service/lifecycle"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/enum/request_enum"
	"carematch_server/pkg/errorx"

	"go.uber.org/zap"
)

const shortSummaryLen = 160

// requestService 请求业务实现
type requestService struct {
	repo   mysql.RequestRepository
	events mq.Publisher
	now    func() time.Time
}

// NewRequestService 构造函数，events 可以为 nil
func NewRequestService(repo mysql.RequestRepository, events mq.Publisher) *requestService {
	return &requestService{repo: repo, events: events, now: time.Now}
}

// Create 发布求助，初始状态为 open
func (s *requestService) Create(ownerID uint, in dtoreq.CreateHelpRequest) (uint, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.FullDescription)
	if title == "" || utf8.RuneCountInString(title) > 255 {
		return 0, errorx.New(errorx.CodeInvalidParam, "Invalid title.")
	}
	if desc == "" {
		return 0, errorx.New(errorx.CodeInvalidParam, "Invalid description.")
	}
	if !request_enum.Contains(request_enum.HelpTypes, in.HelpType) ||
		!request_enum.Contains(request_enum.Categories, in.Category) ||
		!request_enum.Contains(request_enum.TargetGroups, in.TargetGroup) ||
		!request_enum.Contains(request_enum.Topics, in.Topic) ||
		!request_enum.Contains(request_enum.Regions, in.Region) {
		return 0, errorx.ErrInvalidParam
	}

	isMoney := in.HelpType == request_enum.HelpTypeMoney
	var amount *float64
	if isMoney {
		if in.AmountNeeded == nil || *in.AmountNeeded <= 0 {
			return 0, errorx.New(errorx.CodeInvalidParam, "Invalid amount.")
		}
		amount = in.AmountNeeded
	}

	req := &model.HelpRequest{
		UserID:          ownerID,
		HelpType:        in.HelpType,
		Category:        in.Category,
		TargetGroup:     in.TargetGroup,
		Topic:           in.Topic,
		Region:          in.Region,
		Title:           title,
		ShortSummary:    truncate(desc, shortSummaryLen),
		FullDescription: desc,
		AmountNeeded:    amount,
		IsMoneyRequest:  isMoney,
		Status:          request_enum.StatusOpen,
	}

	if url := strings.TrimSpace(in.ImageURL); url != "" {
		src := request_enum.NormalizeImageSource(strings.TrimSpace(in.ImageSource))
		if src == "" {
			src = request_enum.ImageSourceInternal
		}
		if !request_enum.Contains(request_enum.ImageSources, src) {
			return 0, errorx.New(errorx.CodeInvalidParam, "Invalid image source.")
		}
		req.ImageURL = &url
		req.ImageSource = &src
		if key := strings.TrimSpace(in.ImageKey); key != "" {
			req.ImageKey = &key
		}
	}

	if err := s.repo.Create(req); err != nil {
		zap.L().Error("create request failed", zap.Uint("user_id", ownerID), zap.Error(err))
		return 0, err
	}
	return req.ID, nil
}

// List 查询请求列表
// 默认只看 open；mine=1 时列出自己的全部请求；status=all 不按状态过滤
func (s *requestService) List(actor lifecycle.Identity, q dtoreq.ListHelpRequest) ([]respond.HelpRequestRespond, error) {
	filter := model.RequestFilter{Limit: constants.LIST_LIMIT}
	if request_enum.Contains(request_enum.Regions, q.Region) {
		filter.Region = q.Region
	}
	if request_enum.Contains(request_enum.Topics, q.Topic) {
		filter.Topic = q.Topic
	}
	if request_enum.Contains(request_enum.Categories, q.Category) {
		filter.Category = q.Category
	}
	if request_enum.Contains(request_enum.HelpTypes, q.HelpType) {
		filter.HelpType = q.HelpType
	}

	mine := q.Mine == "1"
	if mine {
		filter.OwnerID = actor.ID
	}
	switch {
	case request_enum.Contains(request_enum.Statuses, q.Status):
		filter.Status = q.Status
	case q.Status == "all":
	case !mine:
		filter.Status = request_enum.StatusOpen
	}

	rows, err := s.repo.List(filter)
	if err != nil {
		zap.L().Error("list requests failed", zap.Error(err))
		return nil, err
	}

	out := make([]respond.HelpRequestRespond, 0, len(rows))
	for i := range rows {
		out = append(out, toRespond(&rows[i], actor))
	}
	return out, nil
}

// SetStatus 发布者或管理员直接修改状态
// 只有认领能进入 in_progress；切到其他状态时清空认领信息
func (s *requestService) SetStatus(ctx context.Context, requestID uint, actor lifecycle.Identity, status string) (string, error) {
	if !request_enum.Contains(request_enum.Statuses, status) {
		return "", errorx.New(errorx.CodeInvalidParam, "Invalid status.")
	}
	req, err := s.repo.FindByID(requestID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return "", s.reject(lifecycle.ErrRequestNotFound)
		}
		return "", err
	}
	if !req.IsOwnedBy(actor.ID) && !actor.IsAdmin() {
		return "", s.reject(lifecycle.ErrNotAllowed)
	}
	if status == request_enum.StatusInProgress {
		return "", s.reject(errorx.New(errorx.CodeInvalidState, "Use contact to start a claim."))
	}

	affected, err := s.repo.ConditionalUpdate(req.ID, req.Status, model.ClearPendingFields(status))
	if err != nil {
		zap.L().Error("set request status failed", zap.Uint("request_id", req.ID), zap.Error(err))
		return "", err
	}
	if affected == 0 {
		return "", s.reject(errorx.New(errorx.CodeConflict, "Request changed, please reload."))
	}
	metrics.LifecycleTransitions.WithLabelValues("set_status", "success").Inc()

	if s.events != nil {
		ev := event.LifecycleEvent{
			Type:      event.TypeStatusChanged,
			RequestID: req.ID,
			OwnerID:   req.UserID,
			Status:    status,
			At:        s.now(),
		}
		if err := s.events.Publish(ctx, ev); err != nil {
			metrics.EventPublishFailures.Inc()
			zap.L().Warn("publish status change failed", zap.Uint("request_id", req.ID), zap.Error(err))
		}
	}
	return status, nil
}

func (s *requestService) reject(err *errorx.CodeError) error {
	metrics.LifecycleTransitions.WithLabelValues("set_status", "rejected").Inc()
	zap.L().Info("set status rejected", zap.String("reason", err.Msg))
	return err
}

func toRespond(r *model.HelpRequest, viewer lifecycle.Identity) respond.HelpRequestRespond {
	out := respond.HelpRequestRespond{
		ID:              r.ID,
		UserID:          r.UserID,
		HelpType:        r.HelpType,
		Category:        r.Category,
		TargetGroup:     r.TargetGroup,
		Topic:           r.Topic,
		Region:          r.Region,
		Title:           r.Title,
		ShortSummary:    r.ShortSummary,
		FullDescription: r.FullDescription,
		AmountNeeded:    r.AmountNeeded,
		IsMoneyRequest:  r.IsMoneyRequest,
		ImageURL:        r.ImageURL,
		ImageSource:     r.ImageSource,
		ImageKey:        r.ImageKey,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
	}
	// 认领人联系方式只给发布者和管理员
	if p := r.Pending(); p != nil && (r.IsOwnedBy(viewer.ID) || viewer.IsAdmin()) {
		out.PendingContact = &respond.PendingContactRespond{
			Name:      p.Name,
			Email:     p.Email,
			Phone:     p.Phone,
			Message:   p.Message,
			ClaimedAt: p.ClaimedAt,
		}
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
