package game

import (
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/types"
)

// 外部协作者接口
//
// 遭遇战核心只调用这些接口，不关心其内部实现（渲染、寻路、武器判定等）。
// 所有接口在构造时注入；缺失的协作者以降级模式处理。

// TargetProvider 伤害目标与奖励接收方（通常是玩家）
type TargetProvider interface {
	// FindDamageTarget 查找当前可被攻击的目标，不存在时返回 false
	FindDamageTarget() (types.TargetHandle, bool)
	// TakeDamage 对目标造成伤害
	TakeDamage(target types.TargetHandle, amount int)
	// AddExperience 发放经验奖励
	AddExperience(amount int)
	// AddKill 记录一次击杀
	AddKill()
}

// DistanceProvider 查询实体到目标的距离（由外部世界/寻路负责）
type DistanceProvider interface {
	// DistanceToTarget 返回距离；实体或目标不存在时返回 false
	DistanceToTarget(entity types.EntityHandle, target types.TargetHandle) (float64, bool)
}

// EnvironmentApplier 应用环境的视觉/音频配置，无返回值（fire-and-forget）
type EnvironmentApplier interface {
	ApplyEnvironment(env config.EnvironmentDefinition)
}

// EntityInstantiator 外部世界的实体工厂
type EntityInstantiator interface {
	// Instantiate 在指定位置创建实体，variant 为类型表索引
	Instantiate(variant int, pos types.Vec3) (types.EntityHandle, error)
	// Despawn 实体死亡后移交给外部世界回收
	Despawn(handle types.EntityHandle)
}

// SpawnPointLocator 按标签查找生成点（未配置环境轮换时的后备方案）
type SpawnPointLocator interface {
	FindSpawnPoints(tag string) []types.Vec3
}

// SpawnPointTag 后备生成点的标签
const SpawnPointTag = "SpawnPoint"

// PresentationSink 界面展示接口，核心只写不读
type PresentationSink interface {
	ShowWave(wave int)
	ShowCountdown(seconds float64)
	ShowStats(kills, experience int)
	ShowEnvironment(name string)
	ShowMessage(message string, duration float64)
	ShowGameOver(summary RunSummary)
}

// NopPresentation 丢弃所有展示调用（无界面时使用）
type NopPresentation struct{}

func (NopPresentation) ShowWave(int)                {}
func (NopPresentation) ShowCountdown(float64)       {}
func (NopPresentation) ShowStats(int, int)          {}
func (NopPresentation) ShowEnvironment(string)      {}
func (NopPresentation) ShowMessage(string, float64) {}
func (NopPresentation) ShowGameOver(RunSummary)     {}
