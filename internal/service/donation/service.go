// Package donation 处理访客捐赠（演示支付）与统计
package donation

import (
	"strings"

	"carematch_server/internal/dao/mysql"
	"carematch_server/internal/dto/request"
	"carematch_server/internal/dto/respond"
	"carematch_server/internal/model"
	"carematch_server/pkg/errorx"

	"go.uber.org/zap"
)

const maxAmount = 1_000_000

type donationService struct {
	repo mysql.DonationRepository
}

func NewDonationService(repo mysql.DonationRepository) *donationService {
	return &donationService{repo: repo}
}

// CreateGuest 记录一笔访客捐赠，不处理真实支付
func (s *donationService) CreateGuest(req request.GuestDonationRequest) (*respond.GuestDonationRespond, error) {
	if req.Amount <= 0 || req.Amount > maxAmount {
		return nil, errorx.New(errorx.CodeInvalidParam, "Invalid amount.")
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method != model.PaymentMethodCard && method != model.PaymentMethodBit {
		return nil, errorx.New(errorx.CodeInvalidParam, "Invalid payment method.")
	}

	d := &model.GuestDonation{
		Amount:        req.Amount,
		PaymentMethod: method,
		DonorName:     optional(req.DonorName),
		DonorEmail:    optional(strings.ToLower(req.DonorEmail)),
		DonorPhone:    optional(req.DonorPhone),
		Status:        model.GuestDonationDemoSuccess,
	}
	if err := s.repo.CreateGuest(d); err != nil {
		zap.L().Error("create guest donation failed", zap.Error(err))
		return nil, err
	}
	return &respond.GuestDonationRespond{DonationID: d.ID, Status: d.Status}, nil
}

// Stats 成功捐赠的总数、总额和按支付方式的明细
func (s *donationService) Stats() (*respond.GuestDonationStatsRespond, error) {
	rows, err := s.repo.GuestStats()
	if err != nil {
		zap.L().Error("guest donation stats failed", zap.Error(err))
		return nil, err
	}
	out := &respond.GuestDonationStatsRespond{ByMethod: make([]respond.PaymentMethodStat, 0, len(rows))}
	for _, r := range rows {
		out.TotalCount += r.Count
		out.TotalAmount += r.Amount
		out.ByMethod = append(out.ByMethod, respond.PaymentMethodStat{
			PaymentMethod: r.PaymentMethod,
			Count:         r.Count,
			Amount:        r.Amount,
		})
	}
	return out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
