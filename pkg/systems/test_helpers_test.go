package systems

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/ecs"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/types"
)

const testDelta = 0.1

// fakeTarget 记录受到的伤害和奖励
type fakeTarget struct {
	present    bool
	damage     int
	hits       int
	experience int
	kills      int
}

func (f *fakeTarget) FindDamageTarget() (types.TargetHandle, bool) {
	return 1, f.present
}

func (f *fakeTarget) TakeDamage(_ types.TargetHandle, amount int) {
	f.damage += amount
	f.hits++
}

func (f *fakeTarget) AddExperience(amount int) { f.experience += amount }
func (f *fakeTarget) AddKill()                 { f.kills++ }

// fakeDistances 每个实体的距离，未设置时为 far
type fakeDistances struct {
	far       float64
	distances map[types.EntityHandle]float64
}

func newFakeDistances() *fakeDistances {
	return &fakeDistances{far: 100, distances: make(map[types.EntityHandle]float64)}
}

func (f *fakeDistances) DistanceToTarget(h types.EntityHandle, _ types.TargetHandle) (float64, bool) {
	if d, ok := f.distances[h]; ok {
		return d, true
	}
	return f.far, true
}

type fakeApplier struct {
	applied []string
}

func (f *fakeApplier) ApplyEnvironment(env config.EnvironmentDefinition) {
	f.applied = append(f.applied, env.Name)
}

// fakeInstantiator 顺序分配句柄；failures > 0 时先返回相应次数的错误
type fakeInstantiator struct {
	next      uint64
	failures  int
	spawned   []types.EntityHandle
	positions []types.Vec3
	variants  []int
	despawned []types.EntityHandle
}

func (f *fakeInstantiator) Instantiate(variant int, pos types.Vec3) (types.EntityHandle, error) {
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("prefab not ready")
	}
	f.next++
	h := types.EntityHandle(100 + f.next)
	f.spawned = append(f.spawned, h)
	f.positions = append(f.positions, pos)
	f.variants = append(f.variants, variant)
	return h, nil
}

func (f *fakeInstantiator) Despawn(h types.EntityHandle) {
	f.despawned = append(f.despawned, h)
}

type fakeLocator struct {
	points  []types.Vec3
	queries int
}

func (f *fakeLocator) FindSpawnPoints(tag string) []types.Vec3 {
	f.queries++
	return f.points
}

type fakeMessage struct {
	text     string
	duration float64
}

// fakeSink 记录所有展示调用
type fakeSink struct {
	waves        []int
	countdowns   []float64
	kills        int
	experience   int
	environments []string
	messages     []fakeMessage
	gameOver     *game.RunSummary
}

func (f *fakeSink) ShowWave(wave int)                    { f.waves = append(f.waves, wave) }
func (f *fakeSink) ShowCountdown(seconds float64)        { f.countdowns = append(f.countdowns, seconds) }
func (f *fakeSink) ShowStats(kills, experience int)      { f.kills, f.experience = kills, experience }
func (f *fakeSink) ShowEnvironment(name string)          { f.environments = append(f.environments, name) }
func (f *fakeSink) ShowGameOver(summary game.RunSummary) { f.gameOver = &summary }
func (f *fakeSink) ShowMessage(text string, duration float64) {
	f.messages = append(f.messages, fakeMessage{text, duration})
}

func (f *fakeSink) hasMessage(text string) bool {
	for _, m := range f.messages {
		if m.text == text {
			return true
		}
	}
	return false
}

// fakeObserver 记录观察者事件
type fakeObserver struct {
	game.BaseObserver
	started      []int
	completed    []game.WaveSummary
	environments []string
	spawned      int
	died         int
	ended        []game.RunSummary
}

func (f *fakeObserver) WaveStarted(wave, _ int)          { f.started = append(f.started, wave) }
func (f *fakeObserver) EntitySpawned(int, int)           { f.spawned++ }
func (f *fakeObserver) EntityDied(int, int)              { f.died++ }
func (f *fakeObserver) WaveCompleted(s game.WaveSummary) { f.completed = append(f.completed, s) }
func (f *fakeObserver) EnvironmentChanged(name string)   { f.environments = append(f.environments, name) }
func (f *fakeObserver) EncounterEnded(s game.RunSummary) { f.ended = append(f.ended, s) }

// createTestSettings 测试用参数：无开局延迟，短倒计时
func createTestSettings() *config.Settings {
	s := config.DefaultSettings()
	s.Wave.GameStartDelay = 0
	s.Wave.TimeBetweenWaves = 1
	s.Environment.TransitionTime = 1
	return s
}

// createTestCatalog 创建 n 个环境，每个环境一个生成点
func createTestCatalog(t *testing.T, n int) *config.EnvironmentCatalog {
	t.Helper()
	envs := make([]config.EnvironmentDefinition, n)
	for i := range envs {
		envs[i] = config.EnvironmentDefinition{
			Name:        fmt.Sprintf("Env%d", i),
			SpawnPoints: []types.Vec3{{X: float64(10 * (i + 1))}},
		}
	}
	catalog, err := config.NewEnvironmentCatalog(envs...)
	if err != nil {
		t.Fatalf("NewEnvironmentCatalog failed: %v", err)
	}
	return catalog
}

// testWorld 一组假的外部协作者
type testWorld struct {
	target       *fakeTarget
	distances    *fakeDistances
	applier      *fakeApplier
	instantiator *fakeInstantiator
	locator      *fakeLocator
	sink         *fakeSink
	observer     *fakeObserver
}

func newTestWorld() *testWorld {
	return &testWorld{
		target:       &fakeTarget{present: true},
		distances:    newFakeDistances(),
		applier:      &fakeApplier{},
		instantiator: &fakeInstantiator{},
		locator:      &fakeLocator{},
		sink:         &fakeSink{},
		observer:     &fakeObserver{},
	}
}

func (w *testWorld) deps(settings *config.Settings, catalog *config.EnvironmentCatalog) EncounterDeps {
	return EncounterDeps{
		Settings:     settings,
		Catalog:      catalog,
		Target:       w.target,
		Distances:    w.distances,
		Applier:      w.applier,
		Instantiator: w.instantiator,
		Locator:      w.locator,
		Sink:         w.sink,
		Observers:    []game.EncounterObserver{w.observer},
	}
}

// newTestEncounter 创建并开始一个遭遇战（开局延迟为 0，第一帧即开始倒计时）
func newTestEncounter(t *testing.T, settings *config.Settings, catalog *config.EnvironmentCatalog) (*Encounter, *testWorld) {
	t.Helper()
	w := newTestWorld()
	e := NewEncounter(w.deps(settings, catalog))
	e.Begin()
	e.Tick(testDelta)
	if !e.Snapshot().Running {
		t.Fatal("encounter should be running after the start delay")
	}
	return e, w
}

// tickUntil 推进直到条件满足，超过 maxTicks 时测试失败
func tickUntil(t *testing.T, e *Encounter, maxTicks int, cond func(EncounterSnapshot) bool) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if cond(e.Snapshot()) {
			return
		}
		e.Tick(testDelta)
	}
	if !cond(e.Snapshot()) {
		t.Fatalf("condition not reached after %d ticks, snapshot: %+v", maxTicks, e.Snapshot())
	}
}

// killAll 杀死所有存活实体
func killAll(e *Encounter) {
	for _, rec := range e.Hostiles() {
		e.ApplyDamage(rec.Handle, rec.Health)
	}
}

// newGeneratorHarness 单独测试生成器
type generatorHarness struct {
	em        *ecs.EntityManager
	ledger    *game.EntityLifecycleLedger
	hostiles  *HostileEntitySystem
	generator *SpawnGenerator
	world     *testWorld
}

func newGeneratorHarness(t *testing.T, rotator func(em *ecs.EntityManager) *EnvironmentRotator, useLocator bool) *generatorHarness {
	t.Helper()
	h := &generatorHarness{
		em:     ecs.NewEntityManager(),
		ledger: game.NewEntityLifecycleLedger(),
		world:  newTestWorld(),
	}
	h.hostiles = NewHostileEntitySystem(h.em, h.ledger, h.world.target, h.world.distances, h.world.instantiator, nil, config.DefaultStaggerDuration)

	var r *EnvironmentRotator
	if rotator != nil {
		r = rotator(h.em)
	}
	var locator game.SpawnPointLocator
	if useLocator {
		locator = h.world.locator
	}
	variants, _ := config.NewVariantTable(config.DefaultSettings().Hostile)

	h.generator = NewSpawnGenerator(SpawnGeneratorDeps{
		Ledger:       h.ledger,
		Hostiles:     h.hostiles,
		Rotator:      r,
		Locator:      locator,
		Instantiator: h.world.instantiator,
		Variants:     variants,
		MinInterval:  config.DefaultMinSpawnInterval,
	})
	return h
}
