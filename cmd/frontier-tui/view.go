package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/hud"
	"github.com/gonewx/frontier/pkg/sandbox"
	"github.com/gonewx/frontier/pkg/telemetry"
	"github.com/gonewx/frontier/pkg/types"
)

// 竞技场显示的世界范围（-arenaExtent..arenaExtent）
const arenaExtent = 50.0

// 顶部状态栏行数
const statusRows = 2

var (
	styleDefault = tcell.StyleDefault
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleSpawn   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCorpse  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

func variantStyle(variant int) tcell.Style {
	c := config.VariantColor(variant + 1)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R*255), int32(c.G*255), int32(c.B*255)))
}

// toCell 世界坐标到终端单元格，超出竞技场时返回 false
func toCell(p types.Vec3, width, height int) (int, int, bool) {
	rows := height - statusRows
	if width <= 0 || rows <= 0 {
		return 0, 0, false
	}
	x := int((p.X + arenaExtent) / (2 * arenaExtent) * float64(width))
	y := int((p.Z+arenaExtent)/(2*arenaExtent)*float64(rows)) + statusRows
	if x < 0 || x >= width || y < statusRows || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func drawCentered(screen tcell.Screen, y int, text string, style tcell.Style) {
	width, _ := screen.Size()
	x := (width - len([]rune(text))) / 2
	if x < 0 {
		x = 0
	}
	drawText(screen, x, y, text, style)
}

// drawFrame 绘制一帧：状态栏、竞技场、消息和结算
// metrics 为 nil 时不显示统计
func drawFrame(screen tcell.Screen, session *sandbox.Session, state *hud.State, best game.BestRecords, metrics *telemetry.Metrics) {
	screen.Clear()
	width, height := screen.Size()

	x := 0
	for _, line := range state.StatusLines() {
		drawText(screen, x, 0, line, styleDefault)
		x += len([]rune(line)) + 3
	}
	player := session.World.Player()
	bar := healthBar(player, 20)
	drawText(screen, 0, 1, bar, styleDefault)
	if metrics != nil {
		drawText(screen, len([]rune(bar))+3, 1, metrics.Totals().Line(), styleDefault)
	}

	dim := false
	if rot := session.Encounter.Rotator(); rot != nil && rot.FadeLevel() > 0.5 {
		dim = true
	}

	if !dim {
		for _, p := range session.World.FindSpawnPoints(game.SpawnPointTag) {
			if cx, cy, ok := toCell(p, width, height); ok {
				screen.SetContent(cx, cy, '+', nil, styleSpawn)
			}
		}
		for _, body := range session.World.Bodies() {
			cx, cy, ok := toCell(body.Position, width, height)
			if !ok {
				continue
			}
			if body.Dead {
				screen.SetContent(cx, cy, 'x', nil, styleCorpse)
			} else {
				screen.SetContent(cx, cy, 'Z', nil, variantStyle(body.Variant))
			}
		}
	}
	if cx, cy, ok := toCell(player.Position, width, height); ok {
		screen.SetContent(cx, cy, '@', nil, stylePlayer)
	}

	y := statusRows + 2
	for _, msg := range state.Messages() {
		drawCentered(screen, y, msg, styleMessage)
		y++
	}

	if session.Encounter.Paused() {
		drawCentered(screen, height/2, "PAUSED (P TO RESUME)", styleMessage)
	}
	if lines := state.GameOverLines(best); lines != nil {
		top := height/2 - len(lines)/2
		for i, line := range lines {
			style := styleMessage
			if i == 0 {
				style = styleBanner
			}
			drawCentered(screen, top+i, line, style)
		}
	}

	screen.Show()
}

// healthBar 形如 "HP [#####-----] 50/100"
func healthBar(p sandbox.Player, width int) string {
	filled := 0
	if p.MaxHealth > 0 {
		filled = p.Health * width / p.MaxHealth
	}
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '-'
		}
	}
	return fmt.Sprintf("HP [%s] %d/%d", string(bar), p.Health, p.MaxHealth)
}
