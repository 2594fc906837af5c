// Package hud 保存界面需要显示的状态，实现 game.PresentationSink
//
// 两个前端共用：图形前端用 ebiten 绘制，终端前端用 tcell 绘制。
package hud

import (
	"fmt"

	"github.com/gonewx/frontier/pkg/game"
)

// message 限时显示的居中消息
type message struct {
	text      string
	remaining float64
}

// State 界面状态
//
// 核心只写入，渲染时只读；消息按剩余时间在 Update 中过期。
type State struct {
	Wave        int
	Countdown   float64
	Kills       int
	Experience  int
	Environment string

	messages []message
	gameOver *game.RunSummary
}

// New 创建界面状态
func New() *State {
	return &State{}
}

func (h *State) ShowWave(wave int)               { h.Wave = wave }
func (h *State) ShowCountdown(seconds float64)   { h.Countdown = seconds }
func (h *State) ShowStats(kills, experience int) { h.Kills, h.Experience = kills, experience }
func (h *State) ShowEnvironment(name string)     { h.Environment = name }

// ShowMessage 显示消息；同一文本再次出现时刷新剩余时间
func (h *State) ShowMessage(text string, duration float64) {
	for i := range h.messages {
		if h.messages[i].text == text {
			h.messages[i].remaining = duration
			return
		}
	}
	h.messages = append(h.messages, message{text: text, remaining: duration})
}

// ShowGameOver 记录整局统计
func (h *State) ShowGameOver(summary game.RunSummary) {
	h.gameOver = &summary
}

// Update 推进消息计时
func (h *State) Update(deltaTime float64) {
	kept := h.messages[:0]
	for _, m := range h.messages {
		m.remaining -= deltaTime
		if m.remaining > 0 {
			kept = append(kept, m)
		}
	}
	h.messages = kept
}

// Reset 重新开局时清空消息和结算
func (h *State) Reset() {
	*h = State{}
}

// Messages 当前可见的消息，按出现顺序
func (h *State) Messages() []string {
	out := make([]string, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.text
	}
	return out
}

// GameOver 结算信息，未结束时返回 false
func (h *State) GameOver() (game.RunSummary, bool) {
	if h.gameOver == nil {
		return game.RunSummary{}, false
	}
	return *h.gameOver, true
}

// StatusLines 左上角状态栏文本
func (h *State) StatusLines() []string {
	lines := []string{
		fmt.Sprintf("WAVE: %d", h.Wave),
		fmt.Sprintf("KILLS: %d", h.Kills),
		fmt.Sprintf("XP: %d", h.Experience),
	}
	if h.Countdown > 0 {
		lines = append(lines, fmt.Sprintf("NEXT WAVE: %.1fS", h.Countdown))
	}
	if h.Environment != "" {
		lines = append(lines, "LOCATION: "+h.Environment)
	}
	return lines
}

// GameOverLines 结算界面文本
func (h *State) GameOverLines(best game.BestRecords) []string {
	summary, ok := h.GameOver()
	if !ok {
		return nil
	}
	return []string{
		"GAME OVER",
		fmt.Sprintf("WAVES SURVIVED: %d", summary.WavesSurvived),
		fmt.Sprintf("KILLS: %d", summary.Kills),
		fmt.Sprintf("XP: %d", summary.Experience),
		fmt.Sprintf("BEST: %d WAVES / %d KILLS", best.MostWaves, best.MostKills),
		"PRESS R TO RESTART, Q TO QUIT",
	}
}
