// Package logging 封装 zerolog，为各系统提供带 system 标签的子日志器
//
// 用法：
//
//	logging.Setup("debug", os.Stdout)
//	log := logging.For("WaveScheduler")
//	log.Info().Int("wave", 3).Msg("Wave started")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger 全局根日志器；未调用 Setup 前输出到 stderr（Info 级别）
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// ParseLevel 将配置中的级别字符串转换为 zerolog.Level，未知值回退为 Info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Setup 初始化根日志器
//
// 参数：
//   - level: 日志级别字符串（trace/debug/info/warn/error/off）
//   - out: 输出目标；nil 表示丢弃所有日志（图形前端静默模式）
func Setup(level string, out io.Writer) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	if out == nil {
		Logger = zerolog.Nop()
		return
	}

	Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(out),
	}).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// For 返回带 system 字段的子日志器
func For(system string) zerolog.Logger {
	return Logger.With().Str("system", system).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
