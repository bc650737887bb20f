// Package logging 初始化 hlog：级别、标准输出以及可选的滚动日志文件
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gopkg.in/natefinch/lumberjack.v2"

	"home-assist/pkg/common/config"
)

// Setup 按配置设置全局 hlog，返回的 Closer 用于关闭日志文件（无文件时为 nil）
func Setup(cfg config.LogConfig) io.Closer {
	hlog.SetLevel(ParseLevel(cfg.Level))

	if cfg.File == "" {
		hlog.SetOutput(os.Stdout)
		return nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	hlog.SetOutput(io.MultiWriter(os.Stdout, file))
	return file
}

// ParseLevel 未识别的级别按 info 处理
func ParseLevel(level string) hlog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "notice":
		return hlog.LevelNotice
	case "warn", "warning":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	case "fatal":
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}
