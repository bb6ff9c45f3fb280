// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"carematch_server/internal/config"
	"carematch_server/internal/dao/mysql"
	myredis "carematch_server/internal/dao/redis"
	"carematch_server/internal/infrastructure/mailer"
	"carematch_server/internal/infrastructure/mq"
	"carematch_server/internal/service/admin"
	"carematch_server/internal/service/auth"
	"carematch_server/internal/service/donation"
	"carematch_server/internal/service/lifecycle"
	"carematch_server/internal/service/request"
	"carematch_server/internal/service/upload"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Lifecycle LifecycleService // 请求状态机
	Request   RequestService   // 请求发布与查询
	Auth      AuthService      // 账号与认证
	Donation  DonationService  // 访客捐赠
	Admin     AdminService     // 管理后台
	Upload    UploadService    // 图片上传
}

// Deps Service 层依赖的基础设施
type Deps struct {
	Repos  *mysql.Repositories
	Cache  myredis.AsyncCacheService
	Mailer mailer.Mailer
	Events mq.Publisher // 可以为 nil
	Conf   *config.Config
}

// NewServices 创建并注入所有 Service 实例
func NewServices(d Deps) *Services {
	return &Services{
		Lifecycle: lifecycle.NewService(d.Repos.Request, d.Repos.User, lifecycle.NewMailNotifier(d.Mailer), d.Events),
		Request:   request.NewRequestService(d.Repos.Request, d.Events),
		Auth:      auth.NewAuthService(d.Repos, d.Cache, d.Mailer, d.Conf.MainConfig.AppBaseURL),
		Donation:  donation.NewDonationService(d.Repos.Donation),
		Admin:     admin.NewAdminService(d.Repos, d.Cache),
		Upload:    upload.NewUploadService(d.Conf.StaticSrcConfig.UploadPath),
	}
}
