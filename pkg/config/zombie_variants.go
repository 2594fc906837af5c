package config

import (
	"fmt"

	"github.com/gonewx/frontier/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// BasicVariantName 内置基础类型名称（类型表为空时使用）
const BasicVariantName = "basic"

// VariantDefinition 敌对实体类型
// 数值为 0 的字段由 HostileSettings 补齐
type VariantDefinition struct {
	Name           string  `yaml:"name"`
	Health         int     `yaml:"health"`
	Damage         int     `yaml:"damage"`
	AttackRange    float64 `yaml:"attackRange"`
	AttackCooldown float64 `yaml:"attackCooldown"`
	MoveSpeed      float64 `yaml:"moveSpeed"`
}

// VariantTable 实体类型表，按波次索引
type VariantTable struct {
	Variants []VariantDefinition `yaml:"variants"`

	basic VariantDefinition
}

// BasicVariant 由默认属性构造的基础类型
func BasicVariant(defaults HostileSettings) VariantDefinition {
	return VariantDefinition{
		Name:           BasicVariantName,
		Health:         defaults.Health,
		Damage:         defaults.Damage,
		AttackRange:    defaults.AttackRange,
		AttackCooldown: defaults.AttackCooldown,
	}
}

// NewVariantTable 用代码构造类型表
func NewVariantTable(defaults HostileSettings, variants ...VariantDefinition) (*VariantTable, error) {
	table := &VariantTable{Variants: variants}
	applyVariantDefaults(table, defaults)
	if err := validateVariantTable(table); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadVariantTable 从 YAML 文件加载实体类型表
// 参数：
//
//	filepath - 配置文件路径
//	defaults - 未填写字段使用的默认属性
//
// 返回：
//
//	*VariantTable - 解析后的类型表（允许为空，此时只使用内置基础类型）
//	error - 如果文件读取、解析或验证失败，返回错误信息
func LoadVariantTable(filepath string, defaults HostileSettings) (*VariantTable, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read variant table file %s: %w", filepath, err)
	}

	var table VariantTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse variant table YAML from %s: %w", filepath, err)
	}

	applyVariantDefaults(&table, defaults)

	if err := validateVariantTable(&table); err != nil {
		return nil, fmt.Errorf("invalid variant table in %s: %w", filepath, err)
	}

	return &table, nil
}

func applyVariantDefaults(table *VariantTable, defaults HostileSettings) {
	table.basic = BasicVariant(defaults)
	for i := range table.Variants {
		v := &table.Variants[i]
		if v.Name == "" {
			v.Name = fmt.Sprintf("variant_%d", i)
		}
		if v.Health == 0 {
			v.Health = defaults.Health
		}
		if v.Damage == 0 {
			v.Damage = defaults.Damage
		}
		if v.AttackRange == 0 {
			v.AttackRange = defaults.AttackRange
		}
		if v.AttackCooldown == 0 {
			v.AttackCooldown = defaults.AttackCooldown
		}
	}
}

func validateVariantTable(table *VariantTable) error {
	for i, v := range table.Variants {
		if v.Health < 1 {
			return fmt.Errorf("variant %d (%s): health must be at least 1, got %d", i, v.Name, v.Health)
		}
		if v.Damage < 0 {
			return fmt.Errorf("variant %d (%s): damage cannot be negative, got %d", i, v.Name, v.Damage)
		}
		if v.AttackRange < 0 {
			return fmt.Errorf("variant %d (%s): attackRange cannot be negative, got %.2f", i, v.Name, v.AttackRange)
		}
		if v.AttackCooldown <= 0 {
			return fmt.Errorf("variant %d (%s): attackCooldown must be positive, got %.2f", i, v.Name, v.AttackCooldown)
		}
		if v.MoveSpeed < 0 {
			return fmt.Errorf("variant %d (%s): moveSpeed cannot be negative, got %.2f", i, v.Name, v.MoveSpeed)
		}
	}
	return nil
}

// Len 类型数量（不含内置基础类型）
func (t *VariantTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Variants)
}

// VariantForWave 返回波次对应的类型索引和定义
// 索引为 min(wave-1, Len-1)，小于 0 时取 0；类型表为空时返回内置基础类型
func (t *VariantTable) VariantForWave(wave int) (int, VariantDefinition) {
	if t.Len() == 0 {
		if t == nil {
			return 0, BasicVariant(DefaultSettings().Hostile)
		}
		return 0, t.basic
	}
	index := wave - 1
	if index > len(t.Variants)-1 {
		index = len(t.Variants) - 1
	}
	if index < 0 {
		index = 0
	}
	return index, t.Variants[index]
}

// Variant 按索引返回类型定义，越界或类型表为空时返回内置基础类型
func (t *VariantTable) Variant(index int) VariantDefinition {
	if index >= 0 && index < t.Len() {
		return t.Variants[index]
	}
	if t == nil {
		return BasicVariant(DefaultSettings().Hostile)
	}
	return t.basic
}

// VariantColor 波次对应的显示颜色（纯表现用途）
// 1 红、2 橙、3 紫，之后为暗红
func VariantColor(wave int) Color {
	switch wave {
	case 1:
		return Color{R: 1, G: 0, B: 0}
	case 2:
		return Color{R: 1, G: 0.5, B: 0}
	case 3:
		return Color{R: 0.8, G: 0.2, B: 0.8}
	default:
		return Color{R: 0.3, G: 0.1, B: 0.1}
	}
}
