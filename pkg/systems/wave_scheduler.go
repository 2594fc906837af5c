package systems

import (
	"fmt"
	"strings"

	"github.com/gonewx/frontier/pkg/components"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/ecs"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/rs/zerolog"
)

// 奖励公式常量
const (
	BaseRewardPerKill = 20
	RewardPerWave     = 5
	ZombiesPerWave    = 2
)

// 界面消息显示时长（秒）
const (
	waveIncomingMessageDuration = 3.0
	waveCompleteMessageDuration = 2.0
	enteringMessageDuration     = 3.0
)

// TargetCount 波次需要生成的实体数：base + 2*wave
func TargetCount(base, wave int) int {
	return base + wave*ZombiesPerWave
}

// RewardPerKill 波次中每次击杀的奖励：20 + 5*wave
func RewardPerKill(wave int) int {
	return BaseRewardPerKill + wave*RewardPerWave
}

// WaveScheduler 波次调度系统（顶层编排）
//
// 职责：
//   - 波次间倒计时
//   - 按节奏触发环境切换，切换完成后才开始生成
//   - 计算波次规模和奖励，启动 SpawnGenerator
//   - 轮询账本，"全部生成且全部死亡" 时结束波次
//
// 架构说明：
//   - 状态存储在 WaveStateComponent 上（系统自己创建的实体）
//   - 游戏结束时由外部调用 Stop，Tick 完全冻结
type WaveScheduler struct {
	entityManager *ecs.EntityManager
	ledger        *game.EntityLifecycleLedger
	rotator       *EnvironmentRotator // 可为 nil：不轮换环境
	generator     *SpawnGenerator
	target        game.TargetProvider // 可为 nil：降级模式
	sink          game.PresentationSink
	observers     game.Observers

	wave                config.WaveSettings
	wavesPerEnvironment int

	stateEntityID ecs.EntityID
	budget        *components.SpawnBudget
	running       bool

	lastStats game.LedgerSnapshot

	log zerolog.Logger
}

// WaveSchedulerDeps 调度器依赖
type WaveSchedulerDeps struct {
	Ledger              *game.EntityLifecycleLedger
	Rotator             *EnvironmentRotator
	Generator           *SpawnGenerator
	Target              game.TargetProvider
	Sink                game.PresentationSink
	Observers           game.Observers
	Wave                config.WaveSettings
	WavesPerEnvironment int
}

// NewWaveScheduler 创建波次调度系统
func NewWaveScheduler(em *ecs.EntityManager, deps WaveSchedulerDeps) *WaveScheduler {
	s := &WaveScheduler{
		entityManager:       em,
		ledger:              deps.Ledger,
		rotator:             deps.Rotator,
		generator:           deps.Generator,
		target:              deps.Target,
		sink:                deps.Sink,
		observers:           deps.Observers,
		wave:                deps.Wave,
		wavesPerEnvironment: deps.WavesPerEnvironment,
		log:                 logging.For("WaveScheduler"),
	}
	if s.sink == nil {
		s.sink = game.NopPresentation{}
	}
	if s.wavesPerEnvironment < 1 {
		s.wavesPerEnvironment = config.DefaultWavesPerEnvironment
	}

	s.stateEntityID = em.CreateEntity()
	ecs.AddComponent(em, s.stateEntityID, s.initialState())

	s.log.Debug().Uint64("entity", uint64(s.stateEntityID)).Msg("wave state entity created")
	return s
}

func (s *WaveScheduler) initialState() *components.WaveStateComponent {
	return &components.WaveStateComponent{
		WaveNumber:         1,
		CountdownRemaining: s.wave.TimeBetweenWaves,
		Phase:              components.PhaseCounting,
	}
}

func (s *WaveScheduler) state() *components.WaveStateComponent {
	st, ok := ecs.GetComponent[*components.WaveStateComponent](s.entityManager, s.stateEntityID)
	if !ok {
		st = s.initialState()
		s.stateEntityID = s.entityManager.CreateEntity()
		ecs.AddComponent(s.entityManager, s.stateEntityID, st)
	}
	return st
}

// Start 设置运行标志并开始第一次倒计时
func (s *WaveScheduler) Start() {
	st := s.state()
	s.running = true
	st.Phase = components.PhaseCounting
	st.CountdownRemaining = s.wave.TimeBetweenWaves

	if s.target == nil {
		s.log.Warn().Err(game.ErrMissingCollaborator).Msg("no target provider, running in degraded mode")
	} else if _, ok := s.target.FindDamageTarget(); !ok {
		s.log.Warn().Err(fmt.Errorf("no damage target resolvable: %w", game.ErrMissingCollaborator)).Msg("running in degraded mode")
	}

	s.sink.ShowWave(st.WaveNumber)
	s.pushStats(true)
	s.sink.ShowCountdown(st.CountdownRemaining)
	s.log.Info().Int("wave", st.WaveNumber).Float64("countdown", st.CountdownRemaining).Msg("encounter running")
}

// Stop 冻结调度（游戏结束）；进行中的生成和切换不再推进
func (s *WaveScheduler) Stop() {
	s.running = false
}

// Running 运行标志
func (s *WaveScheduler) Running() bool {
	return s.running
}

// Reset 回到第一波的初始状态（不自动开始）
func (s *WaveScheduler) Reset() {
	*s.state() = *s.initialState()
	s.budget = nil
	s.running = false
	s.lastStats = game.LedgerSnapshot{}
}

// Tick 每帧调用一次
func (s *WaveScheduler) Tick(deltaTime float64) {
	if !s.running {
		return
	}
	st := s.state()

	switch st.Phase {
	case components.PhaseCounting:
		st.CountdownRemaining -= deltaTime
		if st.CountdownRemaining > 0 {
			s.sink.ShowCountdown(st.CountdownRemaining)
		} else {
			s.sink.ShowCountdown(0)
			s.onCountdownExpired(st)
		}

	case components.PhaseTransitioning:
		// 由 EnvironmentRotator 完成回调推进

	case components.PhaseSpawning, components.PhaseAwaitingClear:
		st.WaveElapsed += deltaTime
		if st.Phase == components.PhaseSpawning && s.budget != nil && s.budget.Exhausted() {
			st.Phase = components.PhaseAwaitingClear
			s.log.Debug().Int("wave", st.WaveNumber).Msg("all hostiles spawned, awaiting clear")
		}
		if s.waveCleared() {
			s.EndWave()
		}
	}

	s.pushStats(false)
}

// waveCleared 全部生成（权威条件）且场上无存活
func (s *WaveScheduler) waveCleared() bool {
	if s.budget == nil {
		return false
	}
	return s.budget.SpawnedSoFar == s.budget.TargetCount && s.ledger.LiveCount() == 0
}

// shouldRotate 判断本次倒计时结束是否需要切换环境
// 边界为 waveNumber-1，每个边界只触发一次
func (s *WaveScheduler) shouldRotate(st *components.WaveStateComponent) bool {
	boundary := st.WaveNumber - 1
	return st.WaveNumber > 1 &&
		boundary%s.wavesPerEnvironment == 0 &&
		st.LastRotatedAtWave < boundary
}

func (s *WaveScheduler) onCountdownExpired(st *components.WaveStateComponent) {
	if s.shouldRotate(st) {
		st.LastRotatedAtWave = st.WaveNumber - 1
		if s.rotator != nil {
			// 回调可能同步触发，先切换阶段
			st.Phase = components.PhaseTransitioning
			next := s.rotator.BeginTransition(s.OnEnvironmentTransitionComplete)
			s.sink.ShowMessage("ENTERING: "+strings.ToUpper(next.Name), enteringMessageDuration)
			s.log.Info().Int("wave", st.WaveNumber).Str("next", next.Name).Msg("environment rotation triggered")
			return
		}
		s.log.Debug().Int("wave", st.WaveNumber).Msg("rotation boundary reached without rotator")
	}
	s.StartSpawning()
}

// OnEnvironmentTransitionComplete 环境切换完成回调
func (s *WaveScheduler) OnEnvironmentTransitionComplete() {
	if !s.running {
		return
	}
	if s.state().Phase != components.PhaseTransitioning {
		return
	}
	s.StartSpawning()
}

// StartSpawning 开始当前波次的生成
func (s *WaveScheduler) StartSpawning() {
	st := s.state()
	wave := st.WaveNumber
	target := TargetCount(s.wave.BaseZombiesPerWave, wave)
	reward := RewardPerKill(wave)

	s.budget = &components.SpawnBudget{
		TargetCount: target,
		LiveCap:     s.wave.MaxZombiesAlive,
	}
	s.generator.Start(s.budget, wave, reward)

	snap := s.ledger.Snapshot()
	st.Phase = components.PhaseSpawning
	st.WaveElapsed = 0
	st.KillsAtWaveStart = snap.TotalKills
	st.RewardAtWaveStart = snap.TotalReward

	s.sink.ShowWave(wave)
	s.sink.ShowMessage(fmt.Sprintf("WAVE %d INCOMING!", wave), waveIncomingMessageDuration)
	s.observers.WaveStarted(wave, target)

	s.log.Info().Int("wave", wave).Int("target", target).Int("reward", reward).Msg("wave started")
}

// EndWave 结束当前波次，进入下一波倒计时
func (s *WaveScheduler) EndWave() {
	st := s.state()
	snap := s.ledger.Snapshot()

	summary := game.WaveSummary{
		Wave:     st.WaveNumber,
		Kills:    snap.TotalKills - st.KillsAtWaveStart,
		Reward:   snap.TotalReward - st.RewardAtWaveStart,
		Duration: st.WaveElapsed,
	}
	if s.budget != nil {
		summary.Spawned = s.budget.SpawnedSoFar
	}
	if s.rotator != nil {
		summary.Environment = s.rotator.Current().Name
	}

	s.generator.Stop()
	s.budget = nil

	st.WaveNumber++
	st.CountdownRemaining = s.wave.TimeBetweenWaves
	st.Phase = components.PhaseCounting
	st.WaveElapsed = 0

	s.sink.ShowWave(st.WaveNumber)
	s.sink.ShowMessage(fmt.Sprintf("WAVE %d COMPLETE!", summary.Wave), waveCompleteMessageDuration)
	s.observers.WaveCompleted(summary)

	s.log.Info().
		Int("wave", summary.Wave).
		Int("kills", summary.Kills).
		Int("reward", summary.Reward).
		Float64("duration", summary.Duration).
		Msg("wave complete")
}

// pushStats 击杀或奖励变化时刷新界面
func (s *WaveScheduler) pushStats(force bool) {
	snap := s.ledger.Snapshot()
	if !force && snap.TotalKills == s.lastStats.TotalKills && snap.TotalReward == s.lastStats.TotalReward {
		return
	}
	s.lastStats = snap
	s.sink.ShowStats(snap.TotalKills, snap.TotalReward)
}

// State 波次状态副本
func (s *WaveScheduler) State() components.WaveStateComponent {
	return *s.state()
}

// Budget 当前波次预算副本，不在生成阶段时返回 false
func (s *WaveScheduler) Budget() (components.SpawnBudget, bool) {
	if s.budget == nil {
		return components.SpawnBudget{}, false
	}
	return *s.budget, true
}
