package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gonewx/frontier/pkg/embedded"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// 默认参数
const (
	DefaultBaseZombiesPerWave  = 5
	DefaultTimeBetweenWaves    = 10.0
	DefaultGameStartDelay      = 3.0
	DefaultMaxZombiesAlive     = 20
	DefaultMinSpawnInterval    = 0.5
	DefaultWavesPerEnvironment = 3
	DefaultTransitionTime      = 2.0

	DefaultHostileHealth   = 50
	DefaultHostileDamage   = 10
	DefaultAttackRange     = 2.0
	DefaultAttackCooldown  = 1.0
	DefaultStaggerDuration = 0.2
	DefaultCorpseLinger    = 2.0

	DefaultEnvironmentsPath = "data/environments.yaml"
	DefaultVariantsPath     = "data/zombie_variants.yaml"
	DefaultHistoryPath      = "frontier_history.db"
	DefaultRecordsAppName   = "zombie_frontier"
)

// envPrefix 环境变量前缀，如 FRONTIER_WAVE_MAXZOMBIESALIVE
const envPrefix = "FRONTIER"

// WaveSettings 波次节奏参数
type WaveSettings struct {
	BaseZombiesPerWave int     `mapstructure:"baseZombiesPerWave"`
	TimeBetweenWaves   float64 `mapstructure:"timeBetweenWaves"`
	GameStartDelay     float64 `mapstructure:"gameStartDelay"`
	MaxZombiesAlive    int     `mapstructure:"maxZombiesAlive"`
	MinSpawnInterval   float64 `mapstructure:"minSpawnInterval"`
}

// EnvironmentSettings 环境轮换参数
type EnvironmentSettings struct {
	WavesPerEnvironment int     `mapstructure:"wavesPerEnvironment"`
	RandomOrder         bool    `mapstructure:"randomOrder"`
	TransitionTime      float64 `mapstructure:"transitionTime"`
}

// HostileSettings 敌对实体的默认属性
// 实体类型表中未填写的字段使用这里的值
type HostileSettings struct {
	Health          int     `mapstructure:"health"`
	Damage          int     `mapstructure:"damage"`
	AttackRange     float64 `mapstructure:"attackRange"`
	AttackCooldown  float64 `mapstructure:"attackCooldown"`
	StaggerDuration float64 `mapstructure:"staggerDuration"`
	CorpseLinger    float64 `mapstructure:"corpseLinger"`
}

// DataSettings 数据文件路径（data/ 前缀的路径优先从内嵌资源读取）
type DataSettings struct {
	EnvironmentsPath string `mapstructure:"environmentsPath"`
	VariantsPath     string `mapstructure:"variantsPath"`
}

// HistorySettings 波次历史（SQLite）
type HistorySettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RecordSettings 最佳记录（gdata）
type RecordSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	AppName string `mapstructure:"appName"`
}

// SandboxSettings 内置沙盒世界参数（玩家与自动炮台）
type SandboxSettings struct {
	PlayerHealth   int     `mapstructure:"playerHealth"`
	HostileSpeed   float64 `mapstructure:"hostileSpeed"`
	TurretDamage   int     `mapstructure:"turretDamage"`
	TurretCooldown float64 `mapstructure:"turretCooldown"`
	TurretRange    float64 `mapstructure:"turretRange"`
}

// Settings 运行参数
type Settings struct {
	LogLevel    string              `mapstructure:"logLevel"`
	Wave        WaveSettings        `mapstructure:"wave"`
	Environment EnvironmentSettings `mapstructure:"environment"`
	Hostile     HostileSettings     `mapstructure:"hostile"`
	Data        DataSettings        `mapstructure:"data"`
	History     HistorySettings     `mapstructure:"history"`
	Records     RecordSettings      `mapstructure:"records"`
	Sandbox     SandboxSettings     `mapstructure:"sandbox"`
}

// flagBindings 命令行参数名 -> 配置键
var flagBindings = map[string]string{
	"log-level":             "logLevel",
	"base-per-wave":         "wave.baseZombiesPerWave",
	"max-alive":             "wave.maxZombiesAlive",
	"time-between-waves":    "wave.timeBetweenWaves",
	"waves-per-environment": "environment.wavesPerEnvironment",
	"random-environments":   "environment.randomOrder",
	"environments":          "data.environmentsPath",
	"variants":              "data.variantsPath",
	"history":               "history.enabled",
	"history-path":          "history.path",
	"records":               "records.enabled",
}

// RegisterFlags 在 FlagSet 上注册可覆盖配置的命令行参数
// 参数默认值仅用于帮助文本；只有用户显式设置的参数才会覆盖配置文件
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML settings file")
	fs.String("log-level", "info", "log level (TRACE, DEBUG, INFO, WARN, ERROR)")
	fs.Int("base-per-wave", DefaultBaseZombiesPerWave, "hostiles in wave 0 before the per-wave ramp")
	fs.Int("max-alive", DefaultMaxZombiesAlive, "maximum hostiles alive at once")
	fs.Float64("time-between-waves", DefaultTimeBetweenWaves, "countdown between waves in seconds")
	fs.Int("waves-per-environment", DefaultWavesPerEnvironment, "waves played before the environment rotates")
	fs.Bool("random-environments", false, "rotate environments in random order")
	fs.String("environments", DefaultEnvironmentsPath, "environment catalog YAML")
	fs.String("variants", DefaultVariantsPath, "hostile variant table YAML")
	fs.Bool("history", true, "record wave history in SQLite")
	fs.String("history-path", DefaultHistoryPath, "SQLite file for wave history")
	fs.Bool("records", true, "persist best-run records")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("wave.baseZombiesPerWave", DefaultBaseZombiesPerWave)
	v.SetDefault("wave.timeBetweenWaves", DefaultTimeBetweenWaves)
	v.SetDefault("wave.gameStartDelay", DefaultGameStartDelay)
	v.SetDefault("wave.maxZombiesAlive", DefaultMaxZombiesAlive)
	v.SetDefault("wave.minSpawnInterval", DefaultMinSpawnInterval)

	v.SetDefault("environment.wavesPerEnvironment", DefaultWavesPerEnvironment)
	v.SetDefault("environment.randomOrder", false)
	v.SetDefault("environment.transitionTime", DefaultTransitionTime)

	v.SetDefault("hostile.health", DefaultHostileHealth)
	v.SetDefault("hostile.damage", DefaultHostileDamage)
	v.SetDefault("hostile.attackRange", DefaultAttackRange)
	v.SetDefault("hostile.attackCooldown", DefaultAttackCooldown)
	v.SetDefault("hostile.staggerDuration", DefaultStaggerDuration)
	v.SetDefault("hostile.corpseLinger", DefaultCorpseLinger)

	v.SetDefault("data.environmentsPath", DefaultEnvironmentsPath)
	v.SetDefault("data.variantsPath", DefaultVariantsPath)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath)

	v.SetDefault("records.enabled", true)
	v.SetDefault("records.appName", DefaultRecordsAppName)

	v.SetDefault("sandbox.playerHealth", 100)
	v.SetDefault("sandbox.hostileSpeed", 4.0)
	v.SetDefault("sandbox.turretDamage", 10)
	v.SetDefault("sandbox.turretCooldown", 0.5)
	v.SetDefault("sandbox.turretRange", 30.0)
}

// DefaultSettings 返回只包含默认值的配置（不读取文件、环境变量和命令行）
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	// 默认值的类型都是确定的，解码不会失败
	_ = v.Unmarshal(&s)
	return &s
}

// LoadSettings 加载运行参数
// 优先级（高到低）：命令行参数 > FRONTIER_* 环境变量 > 配置文件 > 默认值
//
// 参数：
//
//	path - YAML 配置文件路径，为空时只使用默认值；data/ 前缀的路径可从内嵌资源读取
//	flags - 已解析的命令行参数，可以为 nil
func LoadSettings(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		data, err := embedded.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse settings YAML from %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagBindings {
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := validateSettings(&s); err != nil {
		if path != "" {
			return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
		}
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &s, nil
}

// validateSettings 验证参数的合法性
func validateSettings(s *Settings) error {
	if s.Wave.BaseZombiesPerWave < 0 {
		return fmt.Errorf("wave.baseZombiesPerWave cannot be negative, got %d", s.Wave.BaseZombiesPerWave)
	}
	if s.Wave.TimeBetweenWaves < 0 {
		return fmt.Errorf("wave.timeBetweenWaves cannot be negative, got %.2f", s.Wave.TimeBetweenWaves)
	}
	if s.Wave.GameStartDelay < 0 {
		return fmt.Errorf("wave.gameStartDelay cannot be negative, got %.2f", s.Wave.GameStartDelay)
	}
	if s.Wave.MaxZombiesAlive < 1 {
		return fmt.Errorf("wave.maxZombiesAlive must be at least 1, got %d", s.Wave.MaxZombiesAlive)
	}
	if s.Wave.MinSpawnInterval <= 0 {
		return fmt.Errorf("wave.minSpawnInterval must be positive, got %.2f", s.Wave.MinSpawnInterval)
	}

	if s.Environment.WavesPerEnvironment < 1 {
		return fmt.Errorf("environment.wavesPerEnvironment must be at least 1, got %d", s.Environment.WavesPerEnvironment)
	}
	if s.Environment.TransitionTime < 0 {
		return fmt.Errorf("environment.transitionTime cannot be negative, got %.2f", s.Environment.TransitionTime)
	}

	if s.Hostile.Health < 1 {
		return fmt.Errorf("hostile.health must be at least 1, got %d", s.Hostile.Health)
	}
	if s.Hostile.Damage < 0 {
		return fmt.Errorf("hostile.damage cannot be negative, got %d", s.Hostile.Damage)
	}
	if s.Hostile.AttackRange < 0 {
		return fmt.Errorf("hostile.attackRange cannot be negative, got %.2f", s.Hostile.AttackRange)
	}
	if s.Hostile.AttackCooldown <= 0 {
		return fmt.Errorf("hostile.attackCooldown must be positive, got %.2f", s.Hostile.AttackCooldown)
	}
	if s.Hostile.StaggerDuration < 0 {
		return fmt.Errorf("hostile.staggerDuration cannot be negative, got %.2f", s.Hostile.StaggerDuration)
	}

	if s.History.Enabled && s.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	if s.Records.Enabled && s.Records.AppName == "" {
		return fmt.Errorf("records.appName is required when records are enabled")
	}

	return nil
}
