package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 应用程序配置
type Config struct {
	APIPort  int
	LogLevel string
	LogFile  LogFileConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Email    EmailConfig
	FcAPI    FcAPIConfig
	Monitor  MonitorConfig
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool
	Path       string
	MaxSize    int // 单个文件最大大小，单位MB
	MaxBackups int // 最大保留旧文件数量
	MaxAge     int // 最大保留天数
	Compress   bool
}

// DatabaseConfig MySQL数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Host     string // SMTP服务器地址
	Port     int    // SMTP服务器端口
	Username string // 邮箱账号
	Password string // 邮箱密码
	From     string // 发件人
	FromName string // 发件人名称
}

// FcAPIConfig 小程序票务API配置
type FcAPIConfig struct {
	BaseURL   string // 票务API地址
	Referer   string // 小程序Referer
	UserAgent string // 小程序UA
}

// MonitorConfig 待支付订单监控配置
type MonitorConfig struct {
	Enabled    bool
	Interval   int // 轮询间隔，单位秒
	RunTimeout int // 单次巡检超时，单位秒
	DedupTTL   int // 订单提醒去重缓存时长，单位小时
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 加载.env文件
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// 解析数据库配置
	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		dbPort = 3306 // 默认端口
	}

	// 解析Redis配置
	redisPort, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		redisPort = 6379 // 默认端口
	}

	// 解析API端口
	apiPort, err := strconv.Atoi(os.Getenv("API_PORT"))
	if err != nil {
		apiPort = 8080 // 默认端口
	}

	// 解析邮件端口
	emailPort, err := strconv.Atoi(os.Getenv("EMAIL_PORT"))
	if err != nil {
		emailPort = 587 // 默认端口
	}

	// 解析监控配置
	monitorInterval, err := strconv.Atoi(os.Getenv("MONITOR_INTERVAL"))
	if err != nil {
		monitorInterval = 60 // 默认60秒巡检一次
	}
	monitorTimeout, err := strconv.Atoi(os.Getenv("MONITOR_RUN_TIMEOUT"))
	if err != nil {
		monitorTimeout = 300
	}
	dedupTTL, err := strconv.Atoi(os.Getenv("MONITOR_DEDUP_TTL"))
	if err != nil {
		dedupTTL = 24
	}

	// 解析日志文件配置
	logMaxSize, err := strconv.Atoi(os.Getenv("LOG_MAX_SIZE"))
	if err != nil {
		logMaxSize = 100
	}
	logMaxBackups, err := strconv.Atoi(os.Getenv("LOG_MAX_BACKUPS"))
	if err != nil {
		logMaxBackups = 7
	}
	logMaxAge, err := strconv.Atoi(os.Getenv("LOG_MAX_AGE"))
	if err != nil {
		logMaxAge = 30
	}

	fcBaseURL := os.Getenv("FC_API_BASE_URL")
	if fcBaseURL == "" {
		fcBaseURL = "https://fccdn1.k4n.cc/fc/wx_api/v1"
	}

	return &Config{
		APIPort:  apiPort,
		LogLevel: os.Getenv("LOG_LEVEL"),
		LogFile: LogFileConfig{
			Enabled:    os.Getenv("LOG_FILE_ENABLED") == "true",
			Path:       os.Getenv("LOG_FILE_PATH"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   os.Getenv("LOG_COMPRESS") == "true",
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     dbPort,
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     redisPort,
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Email: EmailConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     emailPort,
			Username: os.Getenv("EMAIL_USERNAME"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			From:     os.Getenv("EMAIL_FROM"),
			FromName: os.Getenv("EMAIL_FROM_NAME"),
		},
		FcAPI: FcAPIConfig{
			BaseURL:   fcBaseURL,
			Referer:   os.Getenv("FC_API_REFERER"),
			UserAgent: os.Getenv("FC_API_USER_AGENT"),
		},
		Monitor: MonitorConfig{
			Enabled:    os.Getenv("MONITOR_ENABLED") != "false",
			Interval:   monitorInterval,
			RunTimeout: monitorTimeout,
			DedupTTL:   dedupTTL,
		},
	}, nil
}
