package components

// RotationMode 环境轮换模式
type RotationMode int

const (
	// RotationSequential 按顺序轮换：(current+1) mod N
	RotationSequential RotationMode = iota
	// RotationRandom 随机轮换：从除当前外的环境中均匀选择
	RotationRandom
)

// TransitionStage 环境切换阶段
type TransitionStage int

const (
	// TransitionIdle 未在切换
	TransitionIdle TransitionStage = iota
	// TransitionFadeOut 淡出旧环境（transitionTime 的前一半）
	TransitionFadeOut
	// TransitionFadeIn 已切换到新环境，淡入中（剩余一半）
	TransitionFadeIn
)

// EnvironmentRotationState 环境轮换状态
// 只在切换过程中被 EnvironmentRotator 修改，跨波次保留
type EnvironmentRotationState struct {
	CurrentIndex int
	Mode         RotationMode

	Stage        TransitionStage
	StageTimer   float64 // 当前阶段剩余时间（秒）
	PendingIndex int     // 切换目标索引

	// Transitions 已完成的切换次数（调试和统计用）
	Transitions int
}
