package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gonewx/frontier/pkg/components"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/types"
	"github.com/rs/zerolog"
)

// 生成节奏常量
const (
	// BaseSpawnInterval 第 0 波的生成间隔（秒）
	BaseSpawnInterval = 2.0
	// SpawnIntervalStep 每波缩短的生成间隔（秒）
	SpawnIntervalStep = 0.1
)

// SpawnInterval 计算波次的生成间隔：max(minInterval, 2.0 - wave*0.1)
func SpawnInterval(wave int, minInterval float64) float64 {
	return math.Max(minInterval, BaseSpawnInterval-float64(wave)*SpawnIntervalStep)
}

// SpawnGenerator 单个波次的生成器
//
// 职责：
//   - 按间隔逐个生成实体，直到 SpawnedSoFar == TargetCount
//   - 存活数达到上限时暂停（不消耗预算），每帧重新检查
//   - 没有生成点时下一帧重试同一次生成，不会中止波次
//
// 每次 Update 最多生成一个实体，保证存活数不会越过上限。
type SpawnGenerator struct {
	ledger       *game.EntityLifecycleLedger
	hostiles     *HostileEntitySystem
	rotator      *EnvironmentRotator     // 可为 nil：改用 locator
	locator      game.SpawnPointLocator  // 可为 nil
	instantiator game.EntityInstantiator // 可为 nil：只生成逻辑记录
	variants     *config.VariantTable
	observers    game.Observers
	minInterval  float64

	budget *components.SpawnBudget
	wave   int
	reward int
	active bool
	timer  float64 // 距下一次允许生成的时间（秒）

	// 日志节流：同一段连续失败/等待只记录一次
	blockedLogged    bool
	noSourceLogged   bool
	noFactoryLogged  bool
	logicalHandleSeq uint64

	randIntn func(n int) int
	log      zerolog.Logger
}

// SpawnGeneratorDeps 生成器依赖
type SpawnGeneratorDeps struct {
	Ledger       *game.EntityLifecycleLedger
	Hostiles     *HostileEntitySystem
	Rotator      *EnvironmentRotator
	Locator      game.SpawnPointLocator
	Instantiator game.EntityInstantiator
	Variants     *config.VariantTable
	Observers    game.Observers
	MinInterval  float64
}

// NewSpawnGenerator 创建生成器
func NewSpawnGenerator(deps SpawnGeneratorDeps) *SpawnGenerator {
	g := &SpawnGenerator{
		ledger:       deps.Ledger,
		hostiles:     deps.Hostiles,
		rotator:      deps.Rotator,
		locator:      deps.Locator,
		instantiator: deps.Instantiator,
		variants:     deps.Variants,
		observers:    deps.Observers,
		minInterval:  deps.MinInterval,
		randIntn:     rand.Intn,
		log:          logging.For("SpawnGenerator"),
	}
	if g.minInterval <= 0 {
		g.minInterval = config.DefaultMinSpawnInterval
	}
	return g
}

// Start 开始一个波次的生成序列
// 第一个实体在下一次 Update 时生成
func (g *SpawnGenerator) Start(budget *components.SpawnBudget, wave, reward int) {
	g.budget = budget
	g.wave = wave
	g.reward = reward
	g.active = budget != nil && !budget.Exhausted()
	g.timer = 0
	g.blockedLogged = false
	g.noSourceLogged = false

	if budget != nil {
		g.log.Info().
			Int("wave", wave).
			Int("target", budget.TargetCount).
			Int("liveCap", budget.LiveCap).
			Float64("interval", SpawnInterval(wave, g.minInterval)).
			Msg("spawn sequence started")
	}
}

// Stop 丢弃当前生成序列
func (g *SpawnGenerator) Stop() {
	g.budget = nil
	g.active = false
	g.timer = 0
}

// Active 是否仍有待生成的实体
func (g *SpawnGenerator) Active() bool {
	return g.active
}

// Update 推进生成序列
func (g *SpawnGenerator) Update(deltaTime float64) {
	if !g.active || g.budget == nil {
		return
	}
	if g.budget.Exhausted() {
		g.active = false
		return
	}

	if g.timer > 0 {
		g.timer -= deltaTime
		if g.timer > 0 {
			return
		}
	}

	// 背压：存活数达到上限时等待
	if g.ledger.LiveCount() >= g.budget.LiveCap {
		if !g.blockedLogged {
			g.blockedLogged = true
			g.log.Debug().Int("live", g.ledger.LiveCount()).Int("liveCap", g.budget.LiveCap).Msg("live cap reached, spawning paused")
		}
		return
	}
	g.blockedLogged = false

	if !g.emit() {
		return
	}

	g.timer = SpawnInterval(g.wave, g.minInterval)
	if g.budget.Exhausted() {
		g.active = false
		g.log.Info().Int("wave", g.wave).Int("spawned", g.budget.SpawnedSoFar).Msg("spawn sequence complete")
	}
}

// emit 生成一个实体，失败时返回 false（下一帧重试）
func (g *SpawnGenerator) emit() bool {
	pos, err := g.spawnPoint()
	if err != nil {
		if !g.noSourceLogged {
			g.noSourceLogged = true
			g.log.Warn().Err(err).Int("wave", g.wave).Msg("spawn deferred")
		}
		return false
	}
	g.noSourceLogged = false

	variantIndex, variant := g.variants.VariantForWave(g.wave)

	handle, err := g.instantiate(variantIndex, pos)
	if err != nil {
		g.log.Warn().Err(err).Int("variant", variantIndex).Msg("instantiation failed, retrying next tick")
		return false
	}

	if _, err := g.hostiles.Register(handle, variantIndex, variant, g.wave, g.reward); err != nil {
		g.log.Warn().Err(err).Int("variant", variantIndex).Msg("spawned hostile rejected, retrying next tick")
		return false
	}
	g.budget.SpawnedSoFar++
	g.observers.EntitySpawned(g.wave, variantIndex)
	return true
}

func (g *SpawnGenerator) instantiate(variant int, pos types.Vec3) (types.EntityHandle, error) {
	if g.instantiator == nil {
		if !g.noFactoryLogged {
			g.noFactoryLogged = true
			g.log.Warn().Err(game.ErrMissingCollaborator).Msg("no entity instantiator, spawning logical records only")
		}
		g.logicalHandleSeq++
		return types.EntityHandle(g.logicalHandleSeq), nil
	}
	return g.instantiator.Instantiate(variant, pos)
}

// spawnPoint 优先使用当前环境的生成点，没有轮换系统时按标签查找
func (g *SpawnGenerator) spawnPoint() (types.Vec3, error) {
	if g.rotator != nil {
		return g.rotator.PickSpawnPoint()
	}
	if g.locator == nil {
		return types.Vec3{}, fmt.Errorf("no spawn point source: %w", game.ErrMissingCollaborator)
	}
	points := g.locator.FindSpawnPoints(game.SpawnPointTag)
	if len(points) == 0 {
		return types.Vec3{}, fmt.Errorf("no points tagged %q: %w", game.SpawnPointTag, game.ErrNoSpawnPointsAvailable)
	}
	return points[g.randIntn(len(points))], nil
}
