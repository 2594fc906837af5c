package sandbox

import (
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/systems"
)

// Session 遭遇战和沙盒世界的组合，供前端直接驱动
type Session struct {
	Encounter *systems.Encounter
	World     *World
}

// SessionDeps 会话依赖
type SessionDeps struct {
	Settings  *config.Settings
	Catalog   *config.EnvironmentCatalog
	Variants  *config.VariantTable
	Sink      game.PresentationSink
	Observers []game.EncounterObserver
}

// NewSession 创建世界并把它作为全部协作者注入遭遇战
func NewSession(deps SessionDeps) *Session {
	world := NewWorld(deps.Settings, deps.Variants)
	enc := systems.NewEncounter(systems.EncounterDeps{
		Settings:     deps.Settings,
		Catalog:      deps.Catalog,
		Variants:     deps.Variants,
		Target:       world,
		Distances:    world,
		Applier:      world,
		Instantiator: world,
		Locator:      world,
		Sink:         deps.Sink,
		Observers:    deps.Observers,
	})
	world.Attach(enc)
	return &Session{Encounter: enc, World: world}
}

// Begin 开始遭遇战
func (s *Session) Begin() {
	s.Encounter.Begin()
}

// Update 推进一帧：先推进遭遇战，再推进世界
// 暂停或结束后世界也停止
func (s *Session) Update(deltaTime float64) {
	if s.Encounter.Paused() || s.Encounter.Over() {
		return
	}
	s.Encounter.Tick(deltaTime)
	s.World.Step(deltaTime)
}

// TogglePause 切换暂停状态
func (s *Session) TogglePause() {
	if s.Encounter.Paused() {
		s.Encounter.Resume()
	} else {
		s.Encounter.Pause()
	}
}

// Restart 重置世界并重新开局
// 世界先重置，RestartEncounter 重新应用初始环境时生成点随之恢复
func (s *Session) Restart() {
	s.World.Reset()
	s.Encounter.RestartEncounter()
}
