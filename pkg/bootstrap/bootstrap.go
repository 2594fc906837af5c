// Package bootstrap 加载配置和数据文件并创建观察者，供两个前端共用
//
// 只有参数文件错误是致命的；数据文件、历史数据库和记录存储失败时降级运行。
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/history"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/telemetry"
	"github.com/spf13/pflag"
)

// Resources 前端启动所需的一切
type Resources struct {
	Settings *config.Settings
	Catalog  *config.EnvironmentCatalog // 加载失败时为 nil
	Variants *config.VariantTable       // 加载失败时为 nil（内置基础类型）
	Records  *game.RecordManager
	History  *history.Store // 未启用或打开失败时为 nil

	Telemetry *telemetry.Provider // 已设置为全局 MeterProvider
	Metrics   *telemetry.Metrics
}

// Load 解析参数并加载所有资源
//
// 参数：
//   - flags: 已解析的命令行参数（由 config.RegisterFlags 注册）
//   - logOut: 日志输出；nil 表示丢弃日志
//
// 返回：
//   - error: 参数文件无法读取或校验失败
func Load(flags *pflag.FlagSet, logOut io.Writer) (*Resources, error) {
	configPath := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			configPath = f.Value.String()
		}
	}

	settings, err := config.LoadSettings(configPath, flags)
	if err != nil {
		return nil, err
	}
	logging.Setup(settings.LogLevel, logOut)
	log := logging.For("Bootstrap")

	r := &Resources{Settings: settings}

	r.Catalog, err = config.LoadEnvironmentCatalog(settings.Data.EnvironmentsPath)
	if err != nil {
		log.Warn().Err(err).Msg("environment catalog unavailable, rotation disabled")
		r.Catalog = nil
	} else {
		log.Info().Strs("environments", r.Catalog.Names()).Msg("environment catalog loaded")
	}

	r.Variants, err = config.LoadVariantTable(settings.Data.VariantsPath, settings.Hostile)
	if err != nil {
		log.Warn().Err(err).Msg("variant table unavailable, using the basic variant")
		r.Variants = nil
	}

	if settings.Records.Enabled {
		storage, err := game.OpenRecordStorage(settings.Records.AppName)
		if err != nil {
			log.Warn().Err(err).Msg("record storage unavailable, records kept in memory")
		}
		r.Records = game.NewRecordManager(storage)
	} else {
		r.Records = game.NewRecordManager(nil)
	}

	if settings.History.Enabled {
		r.History, err = history.Open(settings.History.Path)
		if err != nil {
			log.Warn().Err(err).Msg("wave history disabled")
			r.History = nil
		}
	}

	r.Telemetry = telemetry.NewProvider()
	r.Telemetry.Install()
	r.Metrics, err = telemetry.New(r.Telemetry.Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return r, nil
}

// Observers 所有需要接入遭遇战的观察者
func (r *Resources) Observers() []game.EncounterObserver {
	observers := []game.EncounterObserver{r.Metrics, r.Records}
	if r.History != nil {
		observers = append(observers, r.History)
	}
	return observers
}

// Close 保存记录、关闭历史数据库并停止 MeterProvider
func (r *Resources) Close() error {
	var firstErr error
	if r.Records != nil {
		if err := r.Records.Save(); err != nil {
			firstErr = err
		}
	}
	if r.History != nil {
		if err := r.History.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.Telemetry != nil {
		if err := r.Telemetry.Shutdown(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
