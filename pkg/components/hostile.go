package components

import "github.com/gonewx/frontier/pkg/types"

// CombatState 敌对实体的战斗状态
type CombatState int

const (
	// CombatChasing 追击目标（寻路由外部负责）
	CombatChasing CombatState = iota
	// CombatAttacking 进入攻击距离，按冷却周期攻击目标
	CombatAttacking
	// CombatStaggered 受击硬直，持续固定时间后回到追击
	CombatStaggered
	// CombatDead 已死亡（终态）
	CombatDead
)

// String 返回状态名称
func (s CombatState) String() string {
	switch s {
	case CombatChasing:
		return "Chasing"
	case CombatAttacking:
		return "Attacking"
	case CombatStaggered:
		return "Staggered"
	case CombatDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// HostileComponent 敌对实体的逻辑记录
//
// 实体对象本身属于外部世界（通过 Handle 引用），核心只维护这份记录：
// 生命值、奖励、战斗状态以及攻击/硬直计时器
type HostileComponent struct {
	Handle types.EntityHandle // 外部世界句柄

	Health      int // 当前生命值，显示用途下限为 0，判定以 <= 0 为准
	MaxHealth   int
	RewardValue int // 死亡时发放的经验
	Variant     int // 实体类型表索引
	Wave        int // 所属波次

	State CombatState

	Damage         int     // 单次攻击伤害
	AttackRange    float64 // 攻击距离
	AttackCooldown float64 // 攻击间隔（秒），固定值，不随波次缩放
	CooldownTimer  float64 // 距下一次可攻击的剩余时间（秒）

	StaggerDuration float64 // 硬直时长（秒）
	StaggerTimer    float64 // 硬直剩余时间（秒）

	// DeathReported 死亡事件是否已上报（幂等保护）
	DeathReported bool
}
