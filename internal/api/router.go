package api

import (
	"github.com/gin-gonic/gin"

	"fcticket/config"
	"fcticket/internal/api/handler"
	"fcticket/internal/middleware"
	"fcticket/internal/service"
	"fcticket/pkg/email"
	"fcticket/pkg/logger"
)

// SetupRouter 设置API路由
func SetupRouter(
	cfg *config.Config,
	logger *logger.Logger,
	matchService *service.MatchService,
	memberService *service.MemberService,
	weChatService *service.WeChatService,
	orderService *service.OrderService,
	mailer email.Sender,
) *gin.Engine {
	// 创建Gin引擎
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 使用中间件
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// 初始化处理器
	matchHandler := handler.NewMatchHandler(matchService, memberService, logger)
	memberHandler := handler.NewMemberHandler(memberService, weChatService, logger)
	orderHandler := handler.NewOrderHandler(orderService, mailer, logger)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 比赛路由
	match := router.Group("/match")
	{
		match.GET("/current/:key", matchHandler.GetCurrent)
		match.GET("/matchList", matchHandler.GetMatchList)
		match.POST("/bind_member", memberHandler.Bind)
		match.GET("/:id", matchHandler.GetByID)
	}

	// 会员路由
	member := router.Group("/member")
	{
		member.POST("/bind", memberHandler.Bind)
		member.POST("/info", memberHandler.SaveWeChat)
		member.GET("/info/:member_key", memberHandler.GetInfo)
	}

	// 订单路由
	order := router.Group("/order")
	{
		order.POST("/orderList", orderHandler.ListOrders)
		order.GET("/orderList/:member_key/:status", orderHandler.ListMemberOrders)
		order.GET("/sendEmail", orderHandler.SendTestEmail)
	}

	return router
}
