package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fcticket/config"
	"fcticket/internal/api"
	"fcticket/internal/repository"
	"fcticket/internal/service"
	"fcticket/internal/worker"
	"fcticket/pkg/database"
	"fcticket/pkg/email"
	"fcticket/pkg/fcapi"
	"fcticket/pkg/logger"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 初始化日志
	logger := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	// 初始化数据库连接
	db, err := database.NewMySQLConnection(cfg.Database)
	if err != nil {
		logger.Fatal("无法链接到数据库", err)
	}
	defer db.Close()

	// 初始化Redis连接
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("无法链接到Redis", err)
	}
	defer redisClient.Close()

	// 初始化票务API客户端
	orderAPI := fcapi.NewClient(cfg.FcAPI, logger)

	// 初始化邮件服务
	emailService := email.NewService(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)

	// 初始化存储库
	memberRepo := repository.NewMemberRepository(db)
	weChatRepo := repository.NewWeChatRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// 初始化服务
	memberService := service.NewMemberService(memberRepo, logger)
	weChatService := service.NewWeChatService(weChatRepo, memberRepo, logger)
	matchService := service.NewMatchService(matchRepo, redisClient, logger)
	orderService := service.NewOrderService(orderAPI, memberRepo, weChatRepo, logger)

	// 初始化待支付订单巡检器，生命周期由main持有
	reconciler := worker.NewReconciler(memberRepo, weChatRepo, orderAPI, emailService, redisClient, cfg.Monitor, logger)
	if cfg.Monitor.Enabled {
		reconciler.Start()
	} else {
		logger.Info("待支付订单巡检已禁用")
	}

	// 初始化API路由
	router := api.SetupRouter(cfg, logger, matchService, memberService, weChatService, orderService, emailService)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.APIPort),
		Handler: router,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info(fmt.Sprintf("服务器启动于端口: %d", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("启动服务器失败", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	// 先停巡检，等正在进行的巡检结束
	if cfg.Monitor.Enabled {
		reconciler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("服务器被强制关闭", err)
	}

	logger.Info("服务器已正常退出")
}
