package components

// WavePhase 波次阶段
type WavePhase int

const (
	// PhaseCounting 波次间倒计时
	PhaseCounting WavePhase = iota
	// PhaseTransitioning 环境切换中，波次开始被挂起直到切换完成
	PhaseTransitioning
	// PhaseSpawning 生成器仍在产出本波实体
	PhaseSpawning
	// PhaseAwaitingClear 本波已全部生成，等待场上实体被清空
	PhaseAwaitingClear
)

// String 返回阶段名称（日志与界面使用）
func (p WavePhase) String() string {
	switch p {
	case PhaseCounting:
		return "Counting"
	case PhaseTransitioning:
		return "Transitioning"
	case PhaseSpawning:
		return "Spawning"
	case PhaseAwaitingClear:
		return "AwaitingClear"
	default:
		return "Unknown"
	}
}

// WaveStateComponent 波次状态组件
// 挂在 WaveScheduler 自己创建的实体上，只由 WaveScheduler 修改
//
// 时间单位：秒（与 Tick 的 deltaTime 一致）
type WaveStateComponent struct {
	// WaveNumber 当前波次（从1开始）
	WaveNumber int

	// CountdownRemaining 距下一波开始的剩余时间（秒）
	// 仅在 PhaseCounting 阶段递减，可能短暂为负
	CountdownRemaining float64

	// Phase 当前阶段
	Phase WavePhase

	// LastRotatedAtWave 最近一次触发环境切换时的波次边界（waveNumber-1）
	// 单调递增，防止倒计时变负后每帧重复触发切换
	LastRotatedAtWave int

	// WaveElapsed 本波开始生成以来经过的时间（秒），用于波次统计
	WaveElapsed float64

	// KillsAtWaveStart 本波开始时的累计击杀数，用于计算本波击杀
	KillsAtWaveStart int

	// RewardAtWaveStart 本波开始时的累计奖励
	RewardAtWaveStart int
}
