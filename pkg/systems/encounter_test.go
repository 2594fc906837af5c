package systems

import (
	"testing"

	"github.com/gonewx/frontier/pkg/components"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/types"
)

func TestEncounterStartDelay(t *testing.T) {
	settings := createTestSettings()
	settings.Wave.GameStartDelay = 1
	w := newTestWorld()
	e := NewEncounter(w.deps(settings, createTestCatalog(t, 2)))

	// Begin 之前 Tick 无效
	e.Tick(5)
	if e.Snapshot().Started || e.Snapshot().Running {
		t.Fatal("encounter must not run before Begin")
	}

	e.Begin()
	if len(w.applier.applied) != 1 || w.applier.applied[0] != "Env0" {
		t.Errorf("initial environment should be applied at Begin, got %v", w.applier.applied)
	}

	for i := 0; i < 5; i++ {
		e.Tick(testDelta)
	}
	if e.Snapshot().Running {
		t.Error("encounter should still be waiting for the start delay")
	}
	if w.sink.hasMessage(OutbreakBanner) {
		t.Error("banner shown too early")
	}

	tickUntil(t, e, 10, func(s EncounterSnapshot) bool { return s.Running })
	if !w.sink.hasMessage(OutbreakBanner) {
		t.Error("outbreak banner missing")
	}
	for _, m := range w.sink.messages {
		if m.text == OutbreakBanner && m.duration != 3 {
			t.Errorf("banner duration = %.1f, want 3", m.duration)
		}
	}
	snap := e.Snapshot()
	if snap.Wave != 1 || snap.Countdown != settings.Wave.TimeBetweenWaves {
		t.Errorf("expected wave 1 with full countdown, got %+v", snap)
	}
}

func TestEncounterPauseResume(t *testing.T) {
	e, _ := newTestEncounter(t, createTestSettings(), createTestCatalog(t, 1))
	e.Tick(testDelta)
	before := e.Snapshot().Countdown

	e.Pause()
	for i := 0; i < 20; i++ {
		e.Tick(testDelta)
	}
	if !e.Paused() || e.Snapshot().Countdown != before {
		t.Errorf("countdown should be frozen while paused: before=%.2f now=%.2f", before, e.Snapshot().Countdown)
	}

	e.Resume()
	e.Tick(testDelta)
	if e.Paused() || e.Snapshot().Countdown >= before {
		t.Error("countdown should continue after resume")
	}
}

func TestEncounterGameOver(t *testing.T) {
	e, w := newTestEncounter(t, createTestSettings(), createTestCatalog(t, 2))

	tickUntil(t, e, 100, func(s EncounterSnapshot) bool { return s.Budget.SpawnedSoFar >= 1 })
	killAll(e)
	e.Tick(testDelta)

	e.GameOver()
	if !e.Over() || e.Snapshot().Running {
		t.Fatal("encounter should be over")
	}
	if w.sink.gameOver == nil {
		t.Fatal("game over summary not shown")
	}
	summary := *w.sink.gameOver
	if summary.WavesSurvived != 0 || summary.Kills != 1 || summary.Experience != 25 || summary.Environment != "Env0" {
		t.Errorf("unexpected run summary %+v", summary)
	}

	frozen := e.Snapshot()
	for i := 0; i < 50; i++ {
		e.Tick(testDelta)
	}
	after := e.Snapshot()
	if after.Budget.SpawnedSoFar != frozen.Budget.SpawnedSoFar || after.Elapsed != frozen.Elapsed {
		t.Error("nothing should advance after game over")
	}

	for _, rec := range e.Hostiles() {
		if e.ApplyDamage(rec.Handle, 100) {
			t.Error("damage must be ignored after game over")
		}
	}

	e.GameOver()
	if len(w.observer.ended) != 1 {
		t.Errorf("EncounterEnded should fire once, got %d", len(w.observer.ended))
	}
}

func TestGameOverBeforeBeginIsIgnored(t *testing.T) {
	w := newTestWorld()
	e := NewEncounter(w.deps(createTestSettings(), createTestCatalog(t, 1)))
	e.GameOver()
	if e.Over() || w.sink.gameOver != nil {
		t.Error("GameOver before Begin should be a no-op")
	}
}

func TestEncounterRestart(t *testing.T) {
	settings := createTestSettings()
	settings.Wave.BaseZombiesPerWave = 0
	settings.Environment.WavesPerEnvironment = 1
	e, w := newTestEncounter(t, settings, createTestCatalog(t, 3))

	// 打完第 1 波，进入第 2 波并完成环境切换
	for i := 0; i < 2000 && (e.Snapshot().Wave < 2 || e.Snapshot().Phase != components.PhaseSpawning); i++ {
		killAll(e)
		e.Tick(testDelta)
	}
	tickUntil(t, e, 100, func(s EncounterSnapshot) bool { return s.Ledger.LiveCount > 0 })

	snap := e.Snapshot()
	if snap.Wave != 2 || snap.EnvironmentIndex != 1 {
		t.Fatalf("expected wave 2 in Env1, got wave %d env %d", snap.Wave, snap.EnvironmentIndex)
	}
	live := e.Hostiles()
	e.GameOver()

	e.RestartEncounter()

	snap = e.Snapshot()
	if snap.Over || !snap.Started {
		t.Error("restart should begin a new encounter")
	}
	if snap.Wave != 1 || snap.Phase != components.PhaseCounting {
		t.Errorf("expected wave 1 counting, got wave %d phase %s", snap.Wave, snap.Phase)
	}
	if snap.Ledger != (game.LedgerSnapshot{}) {
		t.Errorf("ledger should be zero, got %+v", snap.Ledger)
	}
	if snap.EnvironmentIndex != 0 || w.applier.applied[len(w.applier.applied)-1] != "Env0" {
		t.Errorf("environment should return to Env0, got index %d applied %v", snap.EnvironmentIndex, w.applier.applied)
	}
	if len(e.Hostiles()) != 0 {
		t.Error("all hostiles should be removed")
	}
	for _, rec := range live {
		found := false
		for _, h := range w.instantiator.despawned {
			if h == rec.Handle {
				found = true
			}
		}
		if !found {
			t.Errorf("handle %d was not despawned", rec.Handle)
		}
	}
	if w.observer.died != 2 {
		t.Errorf("restart must not count kills, died=%d", w.observer.died)
	}

	e.Tick(testDelta)
	if !e.Snapshot().Running {
		t.Error("encounter should run again after restart")
	}
}

func TestEncounterQuit(t *testing.T) {
	e, _ := newTestEncounter(t, createTestSettings(), createTestCatalog(t, 1))
	if e.QuitRequested() {
		t.Fatal("quit should not be requested initially")
	}
	e.Quit()
	if !e.QuitRequested() {
		t.Error("quit request not recorded")
	}
}

func TestEncounterWithoutCollaborators(t *testing.T) {
	e := NewEncounter(EncounterDeps{})
	e.Begin()
	for i := 0; i < 500; i++ {
		e.Tick(testDelta)
	}
	snap := e.Snapshot()
	if !snap.Running || snap.Over {
		t.Fatalf("encounter should keep running in degraded mode: %+v", snap)
	}
	if snap.Budget.SpawnedSoFar != 0 {
		t.Errorf("nothing can spawn without spawn points, got %d", snap.Budget.SpawnedSoFar)
	}
	if e.Rotator() != nil {
		t.Error("no rotator without a catalog")
	}
}

func TestEncounterLogicalSpawnsFromLocator(t *testing.T) {
	settings := createTestSettings()
	settings.Wave.BaseZombiesPerWave = 0
	locator := &fakeLocator{points: []types.Vec3{{X: 1}, {X: 2}}}
	sink := &fakeSink{}
	e := NewEncounter(EncounterDeps{Settings: settings, Locator: locator, Sink: sink})
	e.Begin()

	tickUntil(t, e, 200, func(s EncounterSnapshot) bool { return s.Phase == components.PhaseAwaitingClear })
	records := e.Hostiles()
	if len(records) != 2 {
		t.Fatalf("expected 2 logical hostiles, got %d", len(records))
	}
	if records[0].Handle == records[1].Handle {
		t.Error("logical handles must be unique")
	}
	if records[0].MaxHealth != config.DefaultHostileHealth {
		t.Errorf("basic variant health = %d, want %d", records[0].MaxHealth, config.DefaultHostileHealth)
	}

	killAll(e)
	e.Tick(testDelta)
	if e.Snapshot().Wave != 2 {
		t.Errorf("wave should complete with logical hostiles, wave=%d", e.Snapshot().Wave)
	}
	if sink.kills != 2 || sink.experience != 50 {
		t.Errorf("unexpected stats kills=%d xp=%d", sink.kills, sink.experience)
	}
}

func TestHostileAttacksTargetInRange(t *testing.T) {
	e, w := newTestEncounter(t, createTestSettings(), createTestCatalog(t, 1))
	w.distances.distances[types.EntityHandle(101)] = 0

	tickUntil(t, e, 100, func(s EncounterSnapshot) bool { return s.Ledger.LiveCount > 0 })
	if w.target.hits != 1 || w.target.damage != config.DefaultHostileDamage {
		t.Fatalf("first attack should land immediately, hits=%d damage=%d", w.target.hits, w.target.damage)
	}

	for i := 0; i < 5; i++ {
		e.Tick(testDelta)
	}
	if w.target.hits != 1 {
		t.Errorf("attack cooldown not respected, hits=%d", w.target.hits)
	}

	for i := 0; i < 10; i++ {
		e.Tick(testDelta)
	}
	if w.target.hits != 2 {
		t.Errorf("expected a second attack after the cooldown, hits=%d", w.target.hits)
	}

	e.ApplyDamage(101, config.DefaultHostileHealth)
	if w.target.kills != 1 || w.target.experience != 25 {
		t.Errorf("kill not credited: kills=%d xp=%d", w.target.kills, w.target.experience)
	}
}
