package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`           // trace/debug/info/warn/error
	File       string `json:"file" yaml:"file"`             // 为空时只输出到标准输出
	MaxSizeMB  int    `json:"maxSizeMB" yaml:"maxSizeMB"`   // 单个文件大小上限
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"` // 保留的旧文件数
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays"`
	Compress   bool   `json:"compress" yaml:"compress"`
}

type SecurityConfig struct {
	MaxBodySize    int64    `json:"maxBodySize" yaml:"maxBodySize"` // 单位：字节
	AllowedMethods []string `json:"allowedMethods" yaml:"allowedMethods"`
}

type CORSConfig struct {
	AllowOrigins     []string      `json:"allowOrigins" yaml:"allowOrigins"`
	AllowMethods     []string      `json:"allowMethods" yaml:"allowMethods"`
	AllowHeaders     []string      `json:"allowHeaders" yaml:"allowHeaders"`
	ExposeHeaders    []string      `json:"exposeHeaders" yaml:"exposeHeaders"`
	AllowCredentials bool          `json:"allowCredentials" yaml:"allowCredentials"`
	MaxAge           time.Duration `json:"maxAge" yaml:"maxAge"`
	TrustedDomains   []string      `json:"trustedDomains" yaml:"trustedDomains"`
}

// JWTAuthConfig 校验托管平台签发的 Bearer 令牌，本服务不签发用户令牌
type JWTAuthConfig struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	Secret        string `json:"secret" yaml:"secret"`
	Issuer        string `json:"issuer" yaml:"issuer"`
	SigningMethod string `json:"signingMethod" yaml:"signingMethod"`
	Realm         string `json:"realm" yaml:"realm"` // JWT领域标识
}

type RateLimitConfig struct {
	Rate     int           `json:"rate" yaml:"rate"`
	Interval time.Duration `json:"interval" yaml:"interval"`
}

type MiddlewareConfig struct {
	Security  SecurityConfig  `json:"security" yaml:"security"`
	JWT       JWTAuthConfig   `json:"jwt" yaml:"jwt"`
	CORS      CORSConfig      `json:"cors" yaml:"cors"`
	RateLimit RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
}

// 数据库配置（审计记录）
type DatabaseConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`         // 关闭时不记录审计
	Host        string `json:"host" yaml:"host"`               // 数据库主机地址
	Port        int    `json:"port" yaml:"port"`               // 数据库端口
	Username    string `json:"username" yaml:"username"`       // 数据库用户名
	Password    string `json:"password" yaml:"password"`       // 数据库密码
	DBName      string `json:"dbname" yaml:"dbname"`           // 数据库名称
	UseUnixSock bool   `json:"useUnixSock" yaml:"useUnixSock"` // 是否使用Unix套接字连接
	MinPoolSize int    `json:"minPoolSize" yaml:"minPoolSize"` // 连接池最小连接数
	MaxPoolSize int    `json:"maxPoolSize" yaml:"maxPoolSize"` // 连接池最大连接数
	LogLevel    string `json:"logLevel" yaml:"logLevel"`       // GORM日志级别
}

// AIConfig 外部 AI 流程
type AIConfig struct {
	Provider       string        `json:"provider" yaml:"provider"` // gemini | openai
	APIKey         string        `json:"apiKey" yaml:"apiKey"`
	BaseURL        string        `json:"baseURL" yaml:"baseURL"`
	TextModel      string        `json:"textModel" yaml:"textModel"`   // 图片/文档分析与文本建议
	ImageModel     string        `json:"imageModel" yaml:"imageModel"` // 海报
	VideoModel     string        `json:"videoModel" yaml:"videoModel"` // 视频广告
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
	VideoPollEvery time.Duration `json:"videoPollEvery" yaml:"videoPollEvery"`
}

// AdminConfig 运维接口的 Basic Auth，密码只保存 bcrypt 哈希
type AdminConfig struct {
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"passwordHash" yaml:"passwordHash"`
}

type AuditConfig struct {
	QueueSize int `json:"queueSize" yaml:"queueSize"`
}

type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Database   DatabaseConfig   `json:"database" yaml:"database"`
	Middleware MiddlewareConfig `json:"middleware" yaml:"middleware"`
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Admin      AdminConfig      `json:"admin" yaml:"admin"`
	Audit      AuditConfig      `json:"audit" yaml:"audit"`
	Env        string           `json:"env" yaml:"env"` // 环境标识
}

// Default 返回默认配置的副本
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Database: DatabaseConfig{
			Enabled:     false,
			Host:        "localhost",
			Port:        3306,
			Username:    "root",
			Password:    "root",
			DBName:      "home_assist",
			UseUnixSock: false,
			MinPoolSize: 5,
			MaxPoolSize: 50,
			LogLevel:    "warn",
		},
		Middleware: MiddlewareConfig{
			Security: SecurityConfig{
				MaxBodySize:    20 << 20, // 20MB，图片以 data URI 提交
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			},
			JWT: JWTAuthConfig{
				Enabled:       false,
				Secret:        "dev-secret-change-me-in-production", // 开发环境默认密钥
				Issuer:        "home-assist",
				SigningMethod: "HS256",
				Realm:         "home-assist",
			},
			CORS: CORSConfig{
				AllowOrigins:     []string{"http://localhost:3000"},
				AllowMethods:     []string{"GET", "POST", "OPTIONS"},
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"},
				ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
				TrustedDomains:   []string{".dev.your-company.com"},
			},
			RateLimit: RateLimitConfig{
				Rate:     10,
				Interval: time.Second,
			},
		},
		AI: AIConfig{
			Provider:       "gemini",
			TextModel:      "gemini-2.0-flash",
			ImageModel:     "gemini-2.0-flash-preview-image-generation",
			VideoModel:     "veo-2.0-generate-001",
			RequestTimeout: 2 * time.Minute,
			VideoPollEvery: 10 * time.Second,
		},
		Admin: AdminConfig{
			Username: "admin",
		},
		Audit: AuditConfig{
			QueueSize: 256,
		},
		Env: "development",
	}
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 加载配置（优先级：环境变量 > .env > 配置文件 > 默认值）
func Load() *Config {
	config := Default()

	// 1. 尝试从配置文件加载
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(&config, configPath); err != nil {
			hlog.Warnf("Failed to load config file: %v", err)
		}
	}

	// 2. .env 只补充未设置的环境变量
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		hlog.Warnf("Failed to load .env: %v", err)
	}

	// 3. 从环境变量覆盖
	loadFromEnv(&config)

	applyProviderDefaults(&config)
	return &config
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	// 优先使用环境变量指定的配置文件路径
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path
	}

	// 依次查找可能的配置文件位置
	searchPaths := []string{
		"./config.yaml",
		"./config.json",
		"../config.json",
		"/etc/home-assist/config.yaml",
		"/etc/home-assist/config.json",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadFromFile 从文件加载配置，按扩展名选择格式
func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	case ".json", "":
		return json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
}

// loadFromEnv 从环境变量加载配置
func loadFromEnv(config *Config) {
	// 服务器配置
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.Server.Address = v
	}

	// 环境配置
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Env = v
	}

	// 日志配置
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		config.Log.File = v
	}

	// 中间件配置
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Middleware.Security.MaxBodySize = size
		}
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if rate, err := strconv.Atoi(v); err == nil {
			config.Middleware.RateLimit.Rate = rate
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.Middleware.CORS.AllowOrigins = splitEnvList(v)
	}

	/****** JWT 配置 ******/
	if v := os.Getenv("JWT_ENABLED"); v != "" {
		config.Middleware.JWT.Enabled = parseBool(v)
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Middleware.JWT.Secret = v
	}

	if v := os.Getenv("JWT_ISSUER"); v != "" {
		config.Middleware.JWT.Issuer = v
	}

	if v := os.Getenv("JWT_ALGORITHM"); v != "" {
		// 清理输入算法字符串中的空格
		algorithm := strings.ReplaceAll(v, " ", "")
		algorithm = strings.ToLower(algorithm)

		// 允许的算法列表
		validAlgorithms := map[string]bool{
			"hs256": true,
			"hs384": true,
			"hs512": true,
		}

		if validAlgorithms[algorithm] {
			// 统一转换为大写（标准JWT算法应全大写）
			config.Middleware.JWT.SigningMethod = strings.ToUpper(algorithm)
		} else {
			hlog.Warnf("Unsupported JWT algorithm: %s", v)
		}
	}

	// AI 配置
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		config.AI.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := firstEnv("AI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY"); v != "" {
		config.AI.APIKey = v
	}
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		config.AI.BaseURL = v
	}
	if v := os.Getenv("AI_TEXT_MODEL"); v != "" {
		config.AI.TextModel = v
	}
	if v := os.Getenv("AI_IMAGE_MODEL"); v != "" {
		config.AI.ImageModel = v
	}
	if v := os.Getenv("AI_VIDEO_MODEL"); v != "" {
		config.AI.VideoModel = v
	}
	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AI.RequestTimeout = d
		} else {
			hlog.Warnf("Invalid AI_TIMEOUT format: %v", err)
		}
	}

	// 运维接口
	if v := os.Getenv("ADMIN_USER"); v != "" {
		config.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		config.Admin.PasswordHash = v
	}

	if v := os.Getenv("AUDIT_QUEUE_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			config.Audit.QueueSize = size
		}
	}

	// 数据库配置
	if v := os.Getenv("DB_ENABLED"); v != "" {
		config.Database.Enabled = parseBool(v)
	}

	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}

	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Database.Port = port
		}
	}

	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.Username = v
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}

	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.DBName = v
	}

	if v := os.Getenv("DB_SOCKET"); v != "" {
		config.Database.UseUnixSock = parseBool(v)
	}

	if v := os.Getenv("DB_MIN_POOL"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			config.Database.MinPoolSize = size
		}
	}

	if v := os.Getenv("DB_MAX_POOL"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			config.Database.MaxPoolSize = size
		}
	}

	if v := os.Getenv("DB_LOG_LEVEL"); v != "" {
		config.Database.LogLevel = strings.ToLower(v)
	}
}

// applyProviderDefaults 切换到 openai 时替换仍为 gemini 默认值的模型名
func applyProviderDefaults(config *Config) {
	if config.AI.Provider != "openai" {
		return
	}
	def := Default().AI
	if config.AI.TextModel == def.TextModel {
		config.AI.TextModel = "gpt-4o-mini"
	}
	if config.AI.ImageModel == def.ImageModel {
		config.AI.ImageModel = "dall-e-3"
	}
}

// 分割环境变量列表（支持逗号分隔的字符串）
func splitEnvList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// 转换字符串为布尔值
func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) InitDB() (*gorm.DB, error) {
	var dsn string
	charsetParam := "charset=utf8mb4&parseTime=True&loc=Local"

	// 自动切换连接方式
	if c.Database.UseUnixSock {
		dsn = fmt.Sprintf("%s:%s@unix(%s)/%s?%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host, // 这里host存储的是socket路径
			c.Database.DBName,
			charsetParam)
	} else {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.DBName,
			charsetParam)
	}

	// 配置GORM日志级别
	gormConfig := &gorm.Config{}
	switch c.Database.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	// 初始化数据库连接
	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)

	return db, nil
}
