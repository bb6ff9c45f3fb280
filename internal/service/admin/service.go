// Package admin 管理后台：概览、用户管理和图表数据
package admin

import (
	"context"
	"strconv"
	"time"

	"carematch_server/internal/dao/mysql"
	myredis "carematch_server/internal/dao/redis"
	"carematch_server/internal/dto/respond"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"

	"go.uber.org/zap"
)

const monthlyChartLimit = 24

type adminService struct {
	repos *mysql.Repositories
	cache myredis.AsyncCacheService
}

func NewAdminService(repos *mysql.Repositories, cache myredis.AsyncCacheService) *adminService {
	return &adminService{repos: repos, cache: cache}
}

// Metrics 捐赠总额 = 用户资金捐赠 + 成功的访客捐赠
func (s *adminService) Metrics() (*respond.AdminMetricsRespond, error) {
	money, err := s.repos.Donation.SumMoney()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	guest, err := s.repos.Donation.GuestStats()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	for _, g := range guest {
		money += g.Amount
	}
	requests, err := s.repos.Request.Count()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	return &respond.AdminMetricsRespond{
		TotalDonations:     money,
		TotalRequests:      requests,
		TotalOrganizations: constants.TOTAL_ORGANIZATIONS,
	}, nil
}

// Users 最新注册的用户及其请求数
func (s *adminService) Users() ([]respond.AdminUserRespond, error) {
	rows, err := s.repos.User.ListWithRequestCount(constants.LIST_LIMIT)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	out := make([]respond.AdminUserRespond, 0, len(rows))
	for _, r := range rows {
		out = append(out, respond.AdminUserRespond{
			ID:              r.ID,
			FullName:        r.FullName,
			Email:           r.Email,
			Phone:           r.Phone,
			Role:            r.Role,
			AccountType:     r.AccountType,
			Region:          r.Region,
			EmailVerifiedAt: r.EmailVerifiedAt,
			CreatedAt:       r.CreatedAt,
			RequestCount:    r.RequestCount,
		})
	}
	return out, nil
}

// DonationsByMonth 两张捐赠表按月合计
func (s *adminService) DonationsByMonth() ([]respond.MonthlyDonationRespond, error) {
	rows, err := s.repos.Donation.MonthlyTotals(monthlyChartLimit)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	out := make([]respond.MonthlyDonationRespond, 0, len(rows))
	for _, r := range rows {
		out = append(out, respond.MonthlyDonationRespond{Month: r.Month, Total: r.Total})
	}
	return out, nil
}

// RequestsByRegion 各地区请求数，降序
func (s *adminService) RequestsByRegion() ([]respond.RegionCountRespond, error) {
	rows, err := s.repos.Request.CountByRegion()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	out := make([]respond.RegionCountRespond, 0, len(rows))
	for _, r := range rows {
		out = append(out, respond.RegionCountRespond{Region: r.Region, Count: r.Count})
	}
	return out, nil
}

// DeleteUser 删除普通用户及其请求、捐赠和验证记录
func (s *adminService) DeleteUser(actorID, targetID uint) error {
	if targetID == 0 {
		return errorx.New(errorx.CodeInvalidParam, "Bad id.")
	}
	if targetID == actorID {
		return errorx.New(errorx.CodeInvalidParam, "You can't delete your own account.")
	}
	user, err := s.repos.User.FindByID(targetID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "User not found.")
		}
		zap.L().Error(err.Error())
		return err
	}
	if user.Role == constants.ROLE_ADMIN {
		return errorx.New(errorx.CodeInvalidParam, "Cannot delete admin.")
	}

	err = s.repos.Transaction(func(tx *mysql.Repositories) error {
		if err := tx.Request.DeleteByUser(targetID); err != nil {
			return err
		}
		if err := tx.Donation.DeleteByUser(targetID); err != nil {
			return err
		}
		if err := tx.Mfa.DeleteByUser(targetID); err != nil {
			return err
		}
		if err := tx.ResetToken.DeleteByUser(targetID); err != nil {
			return err
		}
		return tx.User.DeleteUser(targetID)
	})
	if err != nil {
		zap.L().Error("删除用户失败", zap.Uint("user_id", targetID), zap.Error(err))
		return err
	}
	zap.L().Info("admin deleted user", zap.Uint("admin_id", actorID), zap.Uint("user_id", targetID))

	// 异步清理会话，已签发的 token 随之失效
	key := constants.USER_TOKEN_KEY_PREFIX + strconv.FormatUint(uint64(targetID), 10)
	s.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
		defer cancel()
		if err := s.cache.Delete(ctx, key); err != nil {
			zap.L().Warn("清理已删除用户的会话失败", zap.Uint("user_id", targetID), zap.Error(err))
		}
	})
	return nil
}
