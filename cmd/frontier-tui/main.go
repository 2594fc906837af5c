// Command frontier-tui 在终端中运行遭遇战沙盒
//
// 数据文件从当前目录的 data/ 读取（在仓库根目录运行），日志写入 --log-file。
//
// 按键：P 暂停/继续，R 结算后重新开始，Q/Esc/Ctrl-C 退出。
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/frontier/pkg/bootstrap"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/hud"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/sandbox"
	"github.com/gonewx/frontier/pkg/telemetry"
	"github.com/spf13/pflag"
)

// 帧间隔
const frameInterval = 50 * time.Millisecond

// 单帧最大时间步长，终端卡顿后不会一次推进太多
const maxDelta = 0.25

type terminalGame struct {
	screen  tcell.Screen
	session *sandbox.Session
	hud     *hud.State
	records *game.RecordManager
	metrics *telemetry.Metrics
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "frontier-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("frontier-tui", pflag.ExitOnError)
	config.RegisterFlags(flags)
	logFile := flags.String("log-file", "frontier-tui.log", "log file (empty to discard)")
	mute := flags.Bool("mute", false, "disable audio cues")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// 终端被界面占用，日志只能写文件
	var logOut io.Writer
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	res, err := bootstrap.Load(flags, logOut)
	if err != nil {
		return err
	}
	log := logging.For("TUI")
	defer func() {
		if err := res.Close(); err != nil {
			log.Warn().Err(err).Msg("shutdown incomplete")
		}
	}()

	cues := NewCuePlayer()
	if !*mute {
		if err := cues.Init(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable, cues muted")
		}
	}
	defer cues.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	state := hud.New()
	session := sandbox.NewSession(sandbox.SessionDeps{
		Settings:  res.Settings,
		Catalog:   res.Catalog,
		Variants:  res.Variants,
		Sink:      state,
		Observers: append(res.Observers(), cues),
	})
	session.Begin()

	g := &terminalGame{screen: screen, session: session, hud: state, records: res.Records, metrics: res.Metrics}
	g.loop()
	return nil
}

func (g *terminalGame) loop() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			g.handleEvent(ev)

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxDelta {
				dt = maxDelta
			}
			g.step(dt)
		}

		if g.session.Encounter.QuitRequested() {
			return
		}
	}
}

func (g *terminalGame) step(dt float64) {
	if !g.session.Encounter.Paused() {
		g.hud.Update(dt)
	}
	g.session.Update(dt)
	drawFrame(g.screen, g.session, g.hud, g.records.Records(), g.metrics)
}

// handleEvent 处理按键；返回值表示是否识别了该按键
func (g *terminalGame) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		enc := g.session.Encounter
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			enc.Quit()
		case ev.Key() == tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				enc.Quit()
			case 'p', 'P':
				if !enc.Over() {
					g.session.TogglePause()
				}
			case 'r', 'R':
				if enc.Over() {
					g.hud.Reset()
					g.session.Restart()
				}
			default:
				return false
			}
		default:
			return false
		}
		return true

	case *tcell.EventResize:
		g.screen.Sync()
		return true
	}
	return false
}
