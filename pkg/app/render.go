package app

import (
	"fmt"
	"image/color"

	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/sandbox"
	"github.com/gonewx/frontier/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 世界坐标到屏幕像素的缩放
const worldScale = 6.0

const (
	hostileRadius = 5
	playerRadius  = 8
	lineHeight    = 16
)

var (
	groundBase  = color.RGBA{R: 60, G: 80, B: 55, A: 255}
	spawnColor  = color.RGBA{R: 200, G: 200, B: 60, A: 255}
	corpseColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	playerColor = color.RGBA{R: 80, G: 160, B: 255, A: 255}
	healthBack  = color.RGBA{R: 60, G: 0, B: 0, A: 255}
	healthFront = color.RGBA{R: 40, G: 220, B: 40, A: 255}
)

func worldToScreen(p types.Vec3) (float32, float32) {
	return float32(ScreenWidth/2 + p.X*worldScale), float32(ScreenHeight/2 + p.Z*worldScale)
}

func toRGBA(c config.Color) color.RGBA {
	return color.RGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 255}
}

// groundColor 地面颜色按环境的环境光调暗
func groundColor(light config.Color) color.RGBA {
	return color.RGBA{
		R: uint8(float64(groundBase.R) * light.R),
		G: uint8(float64(groundBase.G) * light.G),
		B: uint8(float64(groundBase.B) * light.B),
		A: 255,
	}
}

// drawArena 绘制地面、生成点、实体、玩家和环境切换遮罩
func drawArena(screen *ebiten.Image, session *sandbox.Session) {
	world := session.World
	env := world.Environment()

	light := env.Ambience.AmbientLight
	if env.Name == "" {
		light = config.White
	}
	screen.Fill(groundColor(light))

	for _, p := range world.FindSpawnPoints(game.SpawnPointTag) {
		x, y := worldToScreen(p)
		vector.DrawFilledRect(screen, x-3, y-3, 6, 6, spawnColor, false)
	}

	for _, body := range world.Bodies() {
		x, y := worldToScreen(body.Position)
		clr := corpseColor
		if !body.Dead {
			clr = toRGBA(config.VariantColor(body.Variant + 1))
		}
		vector.DrawFilledCircle(screen, x, y, hostileRadius, clr, true)
	}

	player := world.Player()
	px, py := worldToScreen(player.Position)
	vector.DrawFilledCircle(screen, px, py, playerRadius, playerColor, true)
	if player.MaxHealth > 0 {
		ratio := float32(player.Health) / float32(player.MaxHealth)
		vector.DrawFilledRect(screen, px-20, py+12, 40, 4, healthBack, false)
		vector.DrawFilledRect(screen, px-20, py+12, 40*ratio, 4, healthFront, false)
	}

	if rot := session.Encounter.Rotator(); rot != nil {
		if fade := rot.FadeLevel(); fade > 0 {
			overlay := color.RGBA{A: uint8(fade * 255)}
			vector.DrawFilledRect(screen, 0, 0, ScreenWidth, ScreenHeight, overlay, false)
		}
	}
}

func drawLines(screen *ebiten.Image, lines []string, x, y int) {
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x, y+i*lineHeight)
	}
}

// drawHUD 状态栏、限时消息、暂停和结算界面
func (a *App) drawHUD(screen *ebiten.Image) {
	drawLines(screen, a.hud.StatusLines(), 10, 10)

	player := a.session.World.Player()
	ebitenutil.DebugPrintAt(screen, healthText(player), 10, ScreenHeight-24)
	if line := a.statsLine(); line != "" {
		ebitenutil.DebugPrintAt(screen, line, 10, ScreenHeight-40)
	}

	drawLines(screen, a.hud.Messages(), ScreenWidth/2-100, 120)

	if a.session.Encounter.Paused() {
		ebitenutil.DebugPrintAt(screen, "PAUSED (P TO RESUME)", ScreenWidth/2-70, ScreenHeight/2-60)
	}

	best := bestRecords(a.records)
	if lines := a.hud.GameOverLines(best); lines != nil {
		vector.DrawFilledRect(screen, ScreenWidth/2-160, ScreenHeight/2-70, 320, 120, color.RGBA{A: 200}, false)
		drawLines(screen, lines, ScreenWidth/2-140, ScreenHeight/2-60)
	}
}

func healthText(p sandbox.Player) string {
	return fmt.Sprintf("HEALTH: %d/%d", p.Health, p.MaxHealth)
}

// statsLine 指标统计行，未接入指标时为空
func (a *App) statsLine() string {
	if a.metrics == nil {
		return ""
	}
	return a.metrics.Totals().Line()
}

func bestRecords(rm *game.RecordManager) game.BestRecords {
	if rm == nil {
		return game.BestRecords{}
	}
	return rm.Records()
}
