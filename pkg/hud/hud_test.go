package hud

import (
	"testing"

	"github.com/gonewx/frontier/pkg/game"
)

func TestStateMessagesExpire(t *testing.T) {
	h := New()
	h.ShowMessage("WAVE 1 INCOMING!", 3)
	h.ShowMessage("ENTERING: DARK FOREST", 1)

	h.Update(0.5)
	if got := h.Messages(); len(got) != 2 {
		t.Fatalf("expected 2 messages, got %v", got)
	}

	h.Update(0.6)
	got := h.Messages()
	if len(got) != 1 || got[0] != "WAVE 1 INCOMING!" {
		t.Errorf("short message should expire first, got %v", got)
	}

	// 相同文本刷新计时而不是重复
	h.ShowMessage("WAVE 1 INCOMING!", 3)
	if len(h.Messages()) != 1 {
		t.Errorf("duplicate message added: %v", h.Messages())
	}
	h.Update(2.5)
	if len(h.Messages()) != 1 {
		t.Error("refreshed message expired too early")
	}
}

func TestStateStatusLines(t *testing.T) {
	h := New()
	h.ShowWave(3)
	h.ShowStats(12, 340)
	h.ShowCountdown(4.3)
	h.ShowEnvironment("MILITARY BASE")

	want := []string{"WAVE: 3", "KILLS: 12", "XP: 340", "NEXT WAVE: 4.3S", "LOCATION: MILITARY BASE"}
	got := h.StatusLines()
	if len(got) != len(want) {
		t.Fatalf("StatusLines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	h.ShowCountdown(0)
	for _, line := range h.StatusLines() {
		if line == "NEXT WAVE: 0.0S" {
			t.Error("countdown should be hidden when it reaches zero")
		}
	}
}

func TestStateGameOver(t *testing.T) {
	h := New()
	if h.GameOverLines(game.BestRecords{}) != nil {
		t.Error("no game over lines before the game ends")
	}

	var sink game.PresentationSink = h
	sink.ShowGameOver(game.RunSummary{WavesSurvived: 4, Kills: 30, Experience: 900})
	lines := h.GameOverLines(game.BestRecords{MostWaves: 6, MostKills: 41})
	if len(lines) == 0 || lines[0] != "GAME OVER" || lines[1] != "WAVES SURVIVED: 4" {
		t.Errorf("unexpected game over lines %v", lines)
	}
	if lines[4] != "BEST: 6 WAVES / 41 KILLS" {
		t.Errorf("best line = %q", lines[4])
	}

	h.Reset()
	if _, ok := h.GameOver(); ok {
		t.Error("Reset should clear the summary")
	}
}
