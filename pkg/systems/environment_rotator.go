package systems

import (
	"fmt"
	"math/rand"

	"github.com/gonewx/frontier/pkg/components"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/ecs"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/types"
	"github.com/rs/zerolog"
)

// EnvironmentRotator 环境轮换系统
//
// 职责：
//   - 持有只读的环境目录
//   - 执行两段式定时切换：淡出（transitionTime 的一半）→ 切换并应用环境 → 淡入（剩余一半）
//   - 切换完成后调用调用方提供的回调
//   - 为生成器提供当前环境的生成点
//
// 架构说明：
//   - 状态存储在 EnvironmentRotationState 组件上（系统自己创建的实体）
//   - 等待通过 Update 推进的阶段计时器实现，不阻塞
type EnvironmentRotator struct {
	entityManager  *ecs.EntityManager
	catalog        *config.EnvironmentCatalog
	applier        game.EnvironmentApplier // 可为 nil
	transitionTime float64

	stateEntityID ecs.EntityID
	onComplete    func()
	listeners     []func(name string)

	// randIntn 随机源，测试可替换
	randIntn func(n int) int

	log zerolog.Logger
}

// NewEnvironmentRotator 创建环境轮换系统
//
// 参数：
//   - em: 实体管理器
//   - catalog: 环境目录，至少包含一个环境
//   - applier: 环境应用器，可为 nil（只切换逻辑状态）
//   - transitionTime: 完整切换时长（秒）
//   - mode: 轮换模式
//
// 返回：
//   - error: 目录为空时返回 ErrMissingCollaborator
func NewEnvironmentRotator(em *ecs.EntityManager, catalog *config.EnvironmentCatalog, applier game.EnvironmentApplier, transitionTime float64, mode components.RotationMode) (*EnvironmentRotator, error) {
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("environment catalog is empty: %w", game.ErrMissingCollaborator)
	}
	if transitionTime < 0 {
		transitionTime = 0
	}

	r := &EnvironmentRotator{
		entityManager:  em,
		catalog:        catalog,
		applier:        applier,
		transitionTime: transitionTime,
		randIntn:       rand.Intn,
		log:            logging.For("EnvironmentRotator"),
	}

	if applier == nil {
		r.log.Warn().Err(game.ErrMissingCollaborator).Msg("no environment applier, ambience will not be applied")
	}

	r.stateEntityID = em.CreateEntity()
	ecs.AddComponent(em, r.stateEntityID, &components.EnvironmentRotationState{Mode: mode})

	return r, nil
}

// AddListener 注册环境切换通知（切换发生在淡出结束时）
func (r *EnvironmentRotator) AddListener(fn func(name string)) {
	r.listeners = append(r.listeners, fn)
}

func (r *EnvironmentRotator) state() *components.EnvironmentRotationState {
	st, ok := ecs.GetComponent[*components.EnvironmentRotationState](r.entityManager, r.stateEntityID)
	if !ok {
		// 状态实体被外部清除时重建
		st = &components.EnvironmentRotationState{}
		r.stateEntityID = r.entityManager.CreateEntity()
		ecs.AddComponent(r.entityManager, r.stateEntityID, st)
	}
	return st
}

// Reset 回到第一个环境并立即应用（无过渡），丢弃进行中的切换
func (r *EnvironmentRotator) Reset() {
	st := r.state()
	st.Stage = components.TransitionIdle
	st.StageTimer = 0
	st.PendingIndex = 0
	r.onComplete = nil
	r.swap(st, 0)
}

// BeginTransition 开始切换到下一个环境
//
// 顺序模式选择 (current+1) mod N；随机模式在除当前以外的环境中均匀选择，
// 只有一个环境时选择当前环境。
// 已有切换进行中时不重新选择目标，onComplete 在该切换结束时一并调用。
//
// 返回：
//   - config.EnvironmentDefinition: 切换目标
func (r *EnvironmentRotator) BeginTransition(onComplete func()) config.EnvironmentDefinition {
	st := r.state()

	if st.Stage != components.TransitionIdle {
		r.chain(onComplete)
		r.log.Debug().Int("pending", st.PendingIndex).Msg("transition already running, queued completion")
		target, _ := r.catalog.Get(st.PendingIndex)
		return target
	}

	next := r.selectNext(st)
	r.begin(st, next, onComplete)
	target, _ := r.catalog.Get(next)
	return target
}

// LoadEnvironment 切换到指定环境（同样经过淡出/淡入）
//
// 返回：
//   - error: 索引越界时返回 ErrInvalidEnvironmentIndex，当前环境不变
func (r *EnvironmentRotator) LoadEnvironment(index int, onComplete func()) error {
	if index < 0 || index >= r.catalog.Len() {
		err := fmt.Errorf("environment index %d out of range [0, %d): %w", index, r.catalog.Len(), game.ErrInvalidEnvironmentIndex)
		r.log.Error().Err(err).Msg("rejected environment load")
		return err
	}

	st := r.state()
	switch st.Stage {
	case components.TransitionFadeOut:
		// 尚未切换，直接改目标
		st.PendingIndex = index
		r.chain(onComplete)
		return nil
	case components.TransitionFadeIn:
		// 已切换到旧目标，重新淡出
		r.chain(onComplete)
		pending := r.onComplete
		r.begin(st, index, pending)
		return nil
	}

	r.begin(st, index, onComplete)
	return nil
}

// NextEnvironment 按顺序切换到下一个环境
func (r *EnvironmentRotator) NextEnvironment(onComplete func()) {
	st := r.state()
	_ = r.LoadEnvironment((st.CurrentIndex+1)%r.catalog.Len(), onComplete)
}

func (r *EnvironmentRotator) selectNext(st *components.EnvironmentRotationState) int {
	n := r.catalog.Len()
	if st.Mode == components.RotationRandom {
		if n == 1 {
			return st.CurrentIndex
		}
		// 在 N-1 个候选中取一个，跳过当前索引
		pick := r.randIntn(n - 1)
		if pick >= st.CurrentIndex {
			pick++
		}
		return pick
	}
	return (st.CurrentIndex + 1) % n
}

func (r *EnvironmentRotator) chain(onComplete func()) {
	if onComplete == nil {
		return
	}
	prev := r.onComplete
	if prev == nil {
		r.onComplete = onComplete
		return
	}
	r.onComplete = func() {
		prev()
		onComplete()
	}
}

func (r *EnvironmentRotator) begin(st *components.EnvironmentRotationState, index int, onComplete func()) {
	st.PendingIndex = index
	st.Stage = components.TransitionFadeOut
	st.StageTimer = r.transitionTime / 2
	r.onComplete = onComplete

	from, _ := r.catalog.Get(st.CurrentIndex)
	to, _ := r.catalog.Get(index)
	r.log.Info().Str("from", from.Name).Str("to", to.Name).Float64("duration", r.transitionTime).Msg("environment transition started")
}

// swap 切换当前环境，应用氛围配置并通知监听者
func (r *EnvironmentRotator) swap(st *components.EnvironmentRotationState, index int) {
	env, ok := r.catalog.Get(index)
	if !ok {
		return
	}
	st.CurrentIndex = index

	if r.applier != nil {
		r.applier.ApplyEnvironment(env)
	}
	for _, fn := range r.listeners {
		fn(env.Name)
	}
	r.log.Info().Str("environment", env.Name).Int("index", index).Msg("environment loaded")
}

// Update 推进切换阶段计时器
// 计时器的超出部分会带入下一阶段，transitionTime 为 0 时在一次 Update 内完成整个切换
func (r *EnvironmentRotator) Update(deltaTime float64) {
	st := r.state()
	if st.Stage == components.TransitionIdle {
		return
	}

	st.StageTimer -= deltaTime
	for st.Stage != components.TransitionIdle && st.StageTimer <= 0 {
		switch st.Stage {
		case components.TransitionFadeOut:
			r.swap(st, st.PendingIndex)
			st.Stage = components.TransitionFadeIn
			st.StageTimer += r.transitionTime - r.transitionTime/2
		case components.TransitionFadeIn:
			st.Stage = components.TransitionIdle
			st.StageTimer = 0
			st.Transitions++
			cb := r.onComplete
			r.onComplete = nil
			if cb != nil {
				cb()
			}
		}
	}
}

// IsTransitioning 是否正在切换
func (r *EnvironmentRotator) IsTransitioning() bool {
	return r.state().Stage != components.TransitionIdle
}

// FadeLevel 当前遮罩程度，0 为完全可见，1 为完全淡出（渲染使用）
func (r *EnvironmentRotator) FadeLevel() float64 {
	st := r.state()
	half := r.transitionTime / 2
	if half <= 0 {
		return 0
	}
	switch st.Stage {
	case components.TransitionFadeOut:
		return clamp01(1 - st.StageTimer/half)
	case components.TransitionFadeIn:
		return clamp01(st.StageTimer / (r.transitionTime - half))
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CurrentIndex 当前环境索引
func (r *EnvironmentRotator) CurrentIndex() int {
	return r.state().CurrentIndex
}

// Current 当前环境定义
func (r *EnvironmentRotator) Current() config.EnvironmentDefinition {
	env, _ := r.catalog.Get(r.state().CurrentIndex)
	return env
}

// Mode 轮换模式
func (r *EnvironmentRotator) Mode() components.RotationMode {
	return r.state().Mode
}

// Transitions 已完成的切换次数
func (r *EnvironmentRotator) Transitions() int {
	return r.state().Transitions
}

// SpawnPoints 当前环境的生成点（副本，按配置顺序）
func (r *EnvironmentRotator) SpawnPoints() []types.Vec3 {
	points := r.Current().SpawnPoints
	out := make([]types.Vec3, len(points))
	copy(out, points)
	return out
}

// PickSpawnPoint 从当前环境随机选择一个生成点
//
// 返回：
//   - error: 没有生成点时返回 ErrNoSpawnPointsAvailable
func (r *EnvironmentRotator) PickSpawnPoint() (types.Vec3, error) {
	env := r.Current()
	if len(env.SpawnPoints) == 0 {
		return types.Vec3{}, fmt.Errorf("environment %q: %w", env.Name, game.ErrNoSpawnPointsAvailable)
	}
	return env.SpawnPoints[r.randIntn(len(env.SpawnPoints))], nil
}
