//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 使用 Makefile 构建（推荐，会先运行 prepare-mobile）：
//
//	make build-android    # Android
//	make build-ios        # iOS (仅 macOS)
//
// 手动构建：
//
//	# Android
//	make prepare-mobile && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.frontier -o build/android/frontier.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	make prepare-mobile && ebitenmobile bind -target ios -tags mobile -o build/ios/Frontier.xcframework -v ./mobile
package mobile

import (
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/spf13/pflag"

	"github.com/gonewx/frontier/pkg/app"
	"github.com/gonewx/frontier/pkg/bootstrap"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/embedded"
)

// mobileArgs 移动端沙盒内没有可写的工作目录，关闭 SQLite 历史
var mobileArgs = []string{"--history=false"}

func init() {
	embedded.Init(dataFS)

	flags := pflag.NewFlagSet("frontier-mobile", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	if err := flags.Parse(mobileArgs); err != nil {
		log.Fatalf("参数解析失败: %v", err)
	}

	res, err := bootstrap.Load(flags, os.Stderr)
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	gameApp := app.NewApp(app.Config{
		Settings:  res.Settings,
		Catalog:   res.Catalog,
		Variants:  res.Variants,
		Records:   res.Records,
		Metrics:   res.Metrics,
		Observers: res.Observers(),
	})

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
