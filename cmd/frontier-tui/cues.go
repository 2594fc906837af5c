package main

import (
	"math"
	"sync"
	"time"

	"github.com/gonewx/frontier/pkg/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// maxPlayedCues 保留的最近提示音条数
const maxPlayedCues = 16

// 提示音名称
const (
	cueWaveStart   = "wave_start"
	cueWaveClear   = "wave_clear"
	cueEnvironment = "environment"
	cueGameOver    = "game_over"
)

type note struct {
	freq     float64
	duration time.Duration
}

// tone 正弦波发生器，播放完 duration 后结束
type tone struct {
	freq     float64
	phase    float64
	position int
	samples  int
	rate     beep.SampleRate
}

func newTone(n note, rate beep.SampleRate) *tone {
	return &tone{freq: n.freq, samples: rate.N(n.duration), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.samples {
			return i, i > 0
		}
		// 淡出包络，避免结尾爆音
		env := 1 - float64(t.position)/float64(t.samples)
		val := 0.3 * env * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// CuePlayer 在波次和环境事件上播放提示音
// 音频设备不可用时只记录事件
type CuePlayer struct {
	game.BaseObserver

	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	played      []string
}

// NewCuePlayer 创建提示音播放器（未初始化时静音）
func NewCuePlayer() *CuePlayer {
	return &CuePlayer{mixer: &beep.Mixer{}}
}

// Init 打开音频设备
func (c *CuePlayer) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close 停止播放并关闭音频设备
func (c *CuePlayer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

func (c *CuePlayer) play(name string, notes ...note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.played) >= maxPlayedCues {
		copy(c.played, c.played[1:])
		c.played = c.played[:maxPlayedCues-1]
	}
	c.played = append(c.played, name)
	if !c.initialized {
		return
	}

	streamers := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		streamers[i] = newTone(n, sampleRate)
	}
	speaker.Lock()
	c.mixer.Add(beep.Seq(streamers...))
	speaker.Unlock()
}

// Played 最近触发的提示音名称（最多 maxPlayedCues 条，按触发顺序）
func (c *CuePlayer) Played() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.played...)
}

func (c *CuePlayer) WaveStarted(int, int) {
	c.play(cueWaveStart, note{440, 120 * time.Millisecond}, note{660, 180 * time.Millisecond})
}

func (c *CuePlayer) WaveCompleted(game.WaveSummary) {
	c.play(cueWaveClear, note{660, 120 * time.Millisecond}, note{880, 240 * time.Millisecond})
}

func (c *CuePlayer) EnvironmentChanged(string) {
	c.play(cueEnvironment, note{220, 400 * time.Millisecond})
}

func (c *CuePlayer) EncounterEnded(game.RunSummary) {
	c.play(cueGameOver,
		note{330, 200 * time.Millisecond},
		note{262, 200 * time.Millisecond},
		note{196, 500 * time.Millisecond},
	)
}
