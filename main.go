package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gonewx/frontier/pkg/app"
	"github.com/gonewx/frontier/pkg/bootstrap"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/embedded"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "zombie frontier: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("frontier", pflag.ExitOnError)
	config.RegisterFlags(flags)
	quiet := flags.Bool("quiet", false, "discard log output")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// data/ 下的默认配置优先从内嵌资源读取
	embedded.Init(dataFS)

	var logOut io.Writer = os.Stderr
	if *quiet {
		logOut = nil
	}
	res, err := bootstrap.Load(flags, logOut)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			log := logging.For("Main")
			log.Warn().Err(err).Msg("shutdown incomplete")
		}
	}()

	gameApp := app.NewApp(app.Config{
		Settings:  res.Settings,
		Catalog:   res.Catalog,
		Variants:  res.Variants,
		Records:   res.Records,
		Metrics:   res.Metrics,
		Observers: res.Observers(),
	})

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle(app.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}
