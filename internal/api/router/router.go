package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/config"
	"github.com/jhappydev/gongsa-server/internal/api/handler"
	"github.com/jhappydev/gongsa-server/internal/api/middleware"
	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
	"github.com/jhappydev/gongsa-server/pkg/validate"
)

// 未认证接口的限流阈值（每 IP 每分钟）
const (
	loginRateLimit    = 10
	registerRateLimit = 5
	rateLimitWindow   = time.Minute
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	gate service.AuthGate,
	limiter middleware.Limiter,
	db Pinger,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	validate.Register()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec interface{}) {
		logger.Error("请求处理 panic", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
		response.InternalError(c)
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			logger.Warn("健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// 账号模块（无需认证）
		api.POST("/user/join", middleware.RateLimit(limiter, registerRateLimit, rateLimitWindow, logger), h.Auth.Register)
		api.POST("/user/email/verify", middleware.RateLimit(limiter, registerRateLimit, rateLimitWindow, logger), h.Auth.VerifyEmail)
		api.POST("/user/login", middleware.RateLimit(limiter, loginRateLimit, rateLimitWindow, logger), h.Auth.Login)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.Auth(gate, cfg.Auth.RefreshPath))
		{
			// 用户模块
			authorized.POST("/user/login/refresh", h.Auth.RefreshToken)
			authorized.POST("/user/logout", h.Auth.Logout)
			authorized.GET("/user", h.User.GetProfile)
			authorized.GET("/user/category", h.User.GetCategories)
			authorized.PUT("/user/category", h.User.ReplaceCategories)

			// 分类
			authorized.GET("/category", h.Category.List)

			// 学习小组
			groups := authorized.Group("/study-group")
			{
				groups.POST("", h.StudyGroup.Create)
				groups.GET("/search", h.StudyGroup.Search)
				groups.GET("/recommend", h.StudyGroup.Recommend)
				groups.GET("/:groupUID", h.StudyGroup.Get)
				groups.GET("/:groupUID/calendar", h.Export.ExportCalendar)
			}

			// 小组成员
			members := authorized.Group("/group-member")
			{
				members.POST("", h.GroupMember.Join)
				members.POST("/code", h.GroupMember.JoinByCode)
				members.GET("/:groupUID", h.GroupMember.ListMembers)
				members.DELETE("/:groupUID", h.GroupMember.Leave)
				members.GET("/:groupUID/export", h.Export.ExportRanking)
			}

			// 问答
			authorized.POST("/question", h.Question.Create)
			authorized.GET("/question/group/:groupUID", h.Question.ListByGroup)
			authorized.GET("/question/:questionUID", h.Question.Get)
			authorized.POST("/answer", h.Question.Answer)

			// 学习记录
			study := authorized.Group("/study-member")
			{
				study.POST("", h.StudyMember.Start)
				study.PATCH("/:studyMemberUID", h.StudyMember.Update)
				study.GET("/:groupUID/last", h.StudyMember.LastStudyTimes)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
