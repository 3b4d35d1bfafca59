package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shapelessblog/internal/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// LogFileName 是 warn 及以上级别日志写入的文件名。
const LogFileName = "shapeless-blog.log"

// Setup 配置全局 logrus：级别、格式、stdout 输出，并把 warn 及以上同时写入 LOG_DIR 下的文件。
// 返回的 Closer 负责关闭日志文件。
func Setup(cfg config.AppConfig) (io.Closer, error) {
	log := logrus.StandardLogger()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(newFormatter(cfg.LogFormat))
	log.SetOutput(os.Stdout)

	if err != nil && cfg.LogLevel != "" {
		log.Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	if cfg.LogDir == "" {
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(cfg.LogDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.AddHook(NewLevelFileHook(file, &logrus.JSONFormatter{TimestampFormat: time.RFC3339}, logrus.WarnLevel))
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newFormatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

// LevelFileHook 把不低于 minLevel 的日志条目另写一份到 writer。
type LevelFileHook struct {
	mu        sync.Mutex
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

// NewLevelFileHook creates a hook firing for minLevel and every more severe level.
func NewLevelFileHook(w io.Writer, formatter logrus.Formatter, minLevel logrus.Level) *LevelFileHook {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		if level <= minLevel {
			levels = append(levels, level)
		}
	}
	return &LevelFileHook{writer: w, formatter: formatter, levels: levels}
}

func (h *LevelFileHook) Levels() []logrus.Level {
	return h.levels
}

func (h *LevelFileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.writer.Write(line)
	return err
}

// GormLogger 将 gorm 的日志转发到 logrus，慢查询阈值 200ms，忽略 record not found。
func GormLogger() logger.Interface {
	level := logger.Warn
	if logrus.GetLevel() >= logrus.DebugLevel {
		level = logger.Info
	}
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
