package config

import (
	"fmt"
	"strings"

	"github.com/gonewx/frontier/pkg/embedded"
	"github.com/gonewx/frontier/pkg/types"
	"gopkg.in/yaml.v3"
)

// Color RGB 颜色，分量范围 [0, 1]
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

// White 默认环境光
var White = Color{R: 1, G: 1, B: 1}

// AmbienceConfig 环境的视觉/音频配置
// 核心不解释这些字段，只原样交给 EnvironmentApplier
type AmbienceConfig struct {
	Skybox       string  `yaml:"skybox"`
	AmbientLight Color   `yaml:"ambientLight"`
	FogDensity   float64 `yaml:"fogDensity"`
	AmbientSound string  `yaml:"ambientSound"`
	Prefab       string  `yaml:"prefab"`
}

// EnvironmentDefinition 单个环境（地点）的定义
// 加载后只读
type EnvironmentDefinition struct {
	Name string `yaml:"name"`

	// SpawnPoints 有序的生成点列表，允许为空（生成器会在下一帧重试）
	SpawnPoints []types.Vec3 `yaml:"spawnPoints"`

	Ambience AmbienceConfig `yaml:"ambience"`

	// RotationIndex 在目录中的位置，由加载器按列表顺序分配
	RotationIndex int `yaml:"-"`
}

// EnvironmentCatalog 环境目录文件结构
type EnvironmentCatalog struct {
	Environments []EnvironmentDefinition `yaml:"environments"`
}

// LoadEnvironmentCatalog 从 YAML 文件加载环境目录
// 参数：
//
//	filepath - 配置文件路径（data/ 前缀优先读取内嵌资源）
//
// 返回：
//
//	*EnvironmentCatalog - 解析后的目录
//	error - 如果文件读取、解析或验证失败，返回错误信息
func LoadEnvironmentCatalog(filepath string) (*EnvironmentCatalog, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment catalog file %s: %w", filepath, err)
	}
	return ParseEnvironmentCatalog(data, filepath)
}

// ParseEnvironmentCatalog 解析环境目录 YAML 内容
// source 只用于错误信息
func ParseEnvironmentCatalog(data []byte, source string) (*EnvironmentCatalog, error) {
	var catalog EnvironmentCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse environment catalog YAML from %s: %w", source, err)
	}

	applyEnvironmentDefaults(&catalog)

	if err := validateEnvironmentCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid environment catalog in %s: %w", source, err)
	}

	return &catalog, nil
}

// NewEnvironmentCatalog 用代码构造环境目录（测试和沙盒使用）
func NewEnvironmentCatalog(envs ...EnvironmentDefinition) (*EnvironmentCatalog, error) {
	catalog := &EnvironmentCatalog{Environments: envs}
	applyEnvironmentDefaults(catalog)
	if err := validateEnvironmentCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// applyEnvironmentDefaults 为未填写的字段设置默认值
func applyEnvironmentDefaults(catalog *EnvironmentCatalog) {
	for i := range catalog.Environments {
		env := &catalog.Environments[i]
		env.RotationIndex = i
		env.Name = strings.TrimSpace(env.Name)
		if env.Ambience.AmbientLight == (Color{}) {
			env.Ambience.AmbientLight = White
		}
	}
}

// validateEnvironmentCatalog 验证环境目录的完整性和合法性
func validateEnvironmentCatalog(catalog *EnvironmentCatalog) error {
	if len(catalog.Environments) == 0 {
		return fmt.Errorf("at least one environment is required")
	}

	seen := make(map[string]int, len(catalog.Environments))
	for i, env := range catalog.Environments {
		if env.Name == "" {
			return fmt.Errorf("environment %d: name is required", i)
		}
		if prev, dup := seen[env.Name]; dup {
			return fmt.Errorf("environment %d: name %q already used by environment %d", i, env.Name, prev)
		}
		seen[env.Name] = i

		if env.Ambience.FogDensity < 0 {
			return fmt.Errorf("environment %s: fogDensity cannot be negative, got %.3f", env.Name, env.Ambience.FogDensity)
		}
		light := env.Ambience.AmbientLight
		for _, c := range []float64{light.R, light.G, light.B} {
			if c < 0 || c > 1 {
				return fmt.Errorf("environment %s: ambientLight components must be within [0, 1], got %+v", env.Name, light)
			}
		}
	}

	return nil
}

// Len 环境数量
func (c *EnvironmentCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Environments)
}

// Get 按索引获取环境定义
func (c *EnvironmentCatalog) Get(index int) (EnvironmentDefinition, bool) {
	if index < 0 || index >= c.Len() {
		return EnvironmentDefinition{}, false
	}
	return c.Environments[index], true
}

// Names 按轮换顺序返回所有环境名称
func (c *EnvironmentCatalog) Names() []string {
	names := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		names = append(names, c.Environments[i].Name)
	}
	return names
}
