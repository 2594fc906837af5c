package systems

import (
	"strings"

	"github.com/gonewx/frontier/pkg/components"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/ecs"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/types"
	"github.com/rs/zerolog"
)

// OutbreakBanner 开局横幅
const OutbreakBanner = "ZOMBIE FRONTIER: OUTBREAK"

const outbreakBannerDuration = 3.0

// EncounterDeps 遭遇战依赖
// 除 Settings 外都可以为 nil，缺失的协作者以降级模式运行
type EncounterDeps struct {
	Settings *config.Settings

	Catalog  *config.EnvironmentCatalog // 为空时不轮换环境，改用 Locator 查找生成点
	Variants *config.VariantTable       // 为空时使用内置基础类型

	Target       game.TargetProvider
	Distances    game.DistanceProvider
	Applier      game.EnvironmentApplier
	Instantiator game.EntityInstantiator
	Locator      game.SpawnPointLocator
	Sink         game.PresentationSink
	Observers    []game.EncounterObserver
}

// EncounterSnapshot 遭遇战状态快照（界面和测试使用）
type EncounterSnapshot struct {
	Started   bool // Begin 之后为 true
	Running   bool // 开局延迟结束且未结束
	Paused    bool
	Over      bool
	Wave      int
	Phase     components.WavePhase
	Countdown float64
	Ledger    game.LedgerSnapshot

	Budget    components.SpawnBudget
	HasBudget bool

	Environment      string
	EnvironmentIndex int
	Transitioning    bool
	FadeLevel        float64

	Elapsed float64
}

// Encounter 遭遇战门面：组装并按固定顺序驱动各系统
//
// 每次 Tick 的顺序：
//  1. WaveScheduler 阶段检查/完成检查
//  2. EnvironmentRotator 阶段计时
//  3. SpawnGenerator 准入与生成
//  4. HostileEntitySystem 状态机
//  5. 死亡记录清理
type Encounter struct {
	settings *config.Settings

	entityManager *ecs.EntityManager
	ledger        *game.EntityLifecycleLedger
	rotator       *EnvironmentRotator
	generator     *SpawnGenerator
	hostiles      *HostileEntitySystem
	scheduler     *WaveScheduler

	sink      game.PresentationSink
	observers game.Observers

	startTimer *components.TimerComponent
	started    bool
	paused     bool
	over       bool
	quit       bool
	elapsed    float64

	log zerolog.Logger
}

// NewEncounter 组装遭遇战
func NewEncounter(deps EncounterDeps) *Encounter {
	settings := deps.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}

	e := &Encounter{
		settings:      settings,
		entityManager: ecs.NewEntityManager(),
		ledger:        game.NewEntityLifecycleLedger(),
		sink:          deps.Sink,
		observers:     game.Observers(deps.Observers),
		log:           logging.For("Encounter"),
	}
	if e.sink == nil {
		e.sink = game.NopPresentation{}
	}

	if deps.Catalog.Len() > 0 {
		mode := components.RotationSequential
		if settings.Environment.RandomOrder {
			mode = components.RotationRandom
		}
		rotator, err := NewEnvironmentRotator(e.entityManager, deps.Catalog, deps.Applier, settings.Environment.TransitionTime, mode)
		if err != nil {
			e.log.Warn().Err(err).Msg("environment rotation disabled")
		} else {
			e.rotator = rotator
			rotator.AddListener(e.onEnvironmentChanged)
		}
	} else {
		e.log.Warn().Err(game.ErrMissingCollaborator).Msg("no environment catalog, using tagged spawn points")
	}

	variants := deps.Variants
	if variants.Len() == 0 {
		variants, _ = config.NewVariantTable(settings.Hostile)
	}

	e.hostiles = NewHostileEntitySystem(e.entityManager, e.ledger, deps.Target, deps.Distances, deps.Instantiator, e.observers, settings.Hostile.StaggerDuration)

	e.generator = NewSpawnGenerator(SpawnGeneratorDeps{
		Ledger:       e.ledger,
		Hostiles:     e.hostiles,
		Rotator:      e.rotator,
		Locator:      deps.Locator,
		Instantiator: deps.Instantiator,
		Variants:     variants,
		Observers:    e.observers,
		MinInterval:  settings.Wave.MinSpawnInterval,
	})

	e.scheduler = NewWaveScheduler(e.entityManager, WaveSchedulerDeps{
		Ledger:              e.ledger,
		Rotator:             e.rotator,
		Generator:           e.generator,
		Target:              deps.Target,
		Sink:                e.sink,
		Observers:           e.observers,
		Wave:                settings.Wave,
		WavesPerEnvironment: settings.Environment.WavesPerEnvironment,
	})

	return e
}

func (e *Encounter) onEnvironmentChanged(name string) {
	e.sink.ShowEnvironment(strings.ToUpper(name))
	e.observers.EnvironmentChanged(name)
}

// Begin 应用初始环境并开始开局延迟；重复调用无效
func (e *Encounter) Begin() {
	if e.started {
		return
	}
	e.started = true

	if e.rotator != nil {
		e.rotator.Reset()
	}
	e.startTimer = &components.TimerComponent{
		Name:       "game_start_delay",
		TargetTime: e.settings.Wave.GameStartDelay,
	}
	e.log.Info().Float64("delay", e.settings.Wave.GameStartDelay).Msg("encounter starting")
}

// Tick 推进一帧
func (e *Encounter) Tick(deltaTime float64) {
	if !e.started || e.paused || e.over {
		return
	}

	if !e.startTimer.IsReady {
		if e.startTimer.Advance(deltaTime) {
			e.scheduler.Start()
			e.sink.ShowMessage(OutbreakBanner, outbreakBannerDuration)
		}
		return
	}

	e.elapsed += deltaTime

	e.scheduler.Tick(deltaTime)
	if e.rotator != nil {
		e.rotator.Update(deltaTime)
	}
	e.generator.Update(deltaTime)
	e.hostiles.Update(deltaTime)
	e.hostiles.PurgeDead()
}

// Pause 暂停（不同于游戏结束，可以恢复）
func (e *Encounter) Pause() {
	if !e.paused {
		e.paused = true
		e.log.Debug().Msg("paused")
	}
}

// Resume 恢复
func (e *Encounter) Resume() {
	if e.paused {
		e.paused = false
		e.log.Debug().Msg("resumed")
	}
}

// Paused 是否暂停
func (e *Encounter) Paused() bool {
	return e.paused
}

// GameOver 外部的游戏结束信号：冻结所有推进并发布整局统计
func (e *Encounter) GameOver() {
	if e.over || !e.started {
		return
	}
	e.over = true
	e.scheduler.Stop()

	st := e.scheduler.State()
	snap := e.ledger.Snapshot()
	summary := game.RunSummary{
		WavesSurvived: st.WaveNumber - 1,
		Kills:         snap.TotalKills,
		Experience:    snap.TotalReward,
		Duration:      e.elapsed,
	}
	if e.rotator != nil {
		summary.Environment = e.rotator.Current().Name
	}

	e.sink.ShowGameOver(summary)
	e.observers.EncounterEnded(summary)

	e.log.Info().
		Int("waves", summary.WavesSurvived).
		Int("kills", summary.Kills).
		Int("xp", summary.Experience).
		Msg("game over")
}

// Over 是否已结束
func (e *Encounter) Over() bool {
	return e.over
}

// RestartEncounter 重置所有核心状态（第 1 波、账本清零、回到第一个环境）并重新开局
func (e *Encounter) RestartEncounter() {
	e.hostiles.Clear()
	e.generator.Stop()
	e.ledger.Reset()
	e.scheduler.Reset()

	e.started = false
	e.paused = false
	e.over = false
	e.elapsed = 0

	e.log.Info().Msg("encounter restarted")
	e.Begin()
}

// Quit 退出信号，只记录请求，由前端决定如何退出
func (e *Encounter) Quit() {
	e.quit = true
	e.log.Info().Msg("quit requested")
}

// QuitRequested 是否已请求退出
func (e *Encounter) QuitRequested() bool {
	return e.quit
}

// ApplyDamage 对实体造成伤害（武器命中判定由外部完成）
func (e *Encounter) ApplyDamage(handle types.EntityHandle, amount int) bool {
	if e.over {
		return false
	}
	return e.hostiles.ApplyDamage(handle, amount)
}

// Hostiles 当前所有敌对实体记录（渲染使用）
func (e *Encounter) Hostiles() []components.HostileComponent {
	return e.hostiles.Records()
}

// Snapshot 当前状态快照
func (e *Encounter) Snapshot() EncounterSnapshot {
	st := e.scheduler.State()
	snap := EncounterSnapshot{
		Started:   e.started,
		Running:   e.scheduler.Running() && !e.over,
		Paused:    e.paused,
		Over:      e.over,
		Wave:      st.WaveNumber,
		Phase:     st.Phase,
		Countdown: st.CountdownRemaining,
		Ledger:    e.ledger.Snapshot(),
		Elapsed:   e.elapsed,
	}
	snap.Budget, snap.HasBudget = e.scheduler.Budget()
	if e.rotator != nil {
		env := e.rotator.Current()
		snap.Environment = env.Name
		snap.EnvironmentIndex = env.RotationIndex
		snap.Transitioning = e.rotator.IsTransitioning()
		snap.FadeLevel = e.rotator.FadeLevel()
	}
	return snap
}

// Rotator 环境轮换系统，未配置环境目录时为 nil
func (e *Encounter) Rotator() *EnvironmentRotator {
	return e.rotator
}
