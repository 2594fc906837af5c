// Package app 提供图形前端：ebiten 游戏循环、HUD 和沙盒竞技场渲染
//
// 桌面端通过 main.go 调用 NewApp()，调用前必须先初始化嵌入资源并加载配置。
package app

import (
	"image/color"

	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/hud"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/sandbox"
	"github.com/gonewx/frontier/pkg/telemetry"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 800
	ScreenHeight = 600
)

// WindowTitle 窗口标题
const WindowTitle = "Zombie Frontier"

// Config 定义应用启动配置
type Config struct {
	Settings  *config.Settings
	Catalog   *config.EnvironmentCatalog
	Variants  *config.VariantTable
	Records   *game.RecordManager // 结算界面显示用，可为 nil；提交由 Observers 中的同一实例完成
	Metrics   *telemetry.Metrics  // 统计行显示用，可为 nil；同样应包含在 Observers 中
	Observers []game.EncounterObserver
}

// App 图形前端，实现 ebiten.Game 接口
type App struct {
	session *sandbox.Session
	hud     *hud.State
	records *game.RecordManager
	metrics *telemetry.Metrics

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数

	log zerolog.Logger
}

// NewApp 创建会话并开始遭遇战
func NewApp(cfg Config) *App {
	hudState := hud.New()
	session := sandbox.NewSession(sandbox.SessionDeps{
		Settings:  cfg.Settings,
		Catalog:   cfg.Catalog,
		Variants:  cfg.Variants,
		Sink:      hudState,
		Observers: cfg.Observers,
	})
	session.Begin()

	a := &App{
		session: session,
		hud:     hudState,
		records: cfg.Records,
		metrics: cfg.Metrics,
		log:     logging.For("App"),
	}
	a.log.Info().Int("environments", cfg.Catalog.Len()).Int("variants", cfg.Variants.Len()).Msg("app ready")
	return a
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 退出全屏后需要等待几帧才能正确设置窗口大小
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	enc := a.session.Encounter
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		enc.Quit()
	}
	if enc.QuitRequested() {
		return ebiten.Termination
	}

	if enc.Over() {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			a.restart()
		}
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.session.TogglePause()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	if !enc.Paused() {
		a.hud.Update(deltaTime)
	}
	a.session.Update(deltaTime)
	return nil
}

func (a *App) restart() {
	a.hud.Reset()
	a.session.Restart()
	a.log.Info().Msg("restarted from game over screen")
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	drawArena(screen, a.session)
	a.drawHUD(screen)
}

// DrawFinalScreen 全屏时用黑色 letterbox 并线性缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Session 当前会话
func (a *App) Session() *sandbox.Session {
	return a.session
}
