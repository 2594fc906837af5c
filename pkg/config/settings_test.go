package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Wave.BaseZombiesPerWave != 5 {
		t.Errorf("baseZombiesPerWave: expected 5, got %d", s.Wave.BaseZombiesPerWave)
	}
	if s.Wave.TimeBetweenWaves != 10 {
		t.Errorf("timeBetweenWaves: expected 10, got %.2f", s.Wave.TimeBetweenWaves)
	}
	if s.Wave.GameStartDelay != 3 {
		t.Errorf("gameStartDelay: expected 3, got %.2f", s.Wave.GameStartDelay)
	}
	if s.Wave.MaxZombiesAlive != 20 {
		t.Errorf("maxZombiesAlive: expected 20, got %d", s.Wave.MaxZombiesAlive)
	}
	if s.Environment.WavesPerEnvironment != 3 {
		t.Errorf("wavesPerEnvironment: expected 3, got %d", s.Environment.WavesPerEnvironment)
	}
	if s.Environment.TransitionTime != 2 {
		t.Errorf("transitionTime: expected 2, got %.2f", s.Environment.TransitionTime)
	}
	if s.Hostile.Health != 50 || s.Hostile.Damage != 10 {
		t.Errorf("hostile stats: expected 50/10, got %d/%d", s.Hostile.Health, s.Hostile.Damage)
	}
	if s.Hostile.AttackRange != 2 || s.Hostile.AttackCooldown != 1 {
		t.Errorf("hostile attack: expected 2/1, got %.2f/%.2f", s.Hostile.AttackRange, s.Hostile.AttackCooldown)
	}
	if s.LogLevel != "info" {
		t.Errorf("logLevel: expected info, got %q", s.LogLevel)
	}
	if err := validateSettings(s); err != nil {
		t.Errorf("default settings should be valid: %v", err)
	}
}

func TestLoadSettings(t *testing.T) {
	t.Run("无配置文件时使用默认值", func(t *testing.T) {
		s, err := LoadSettings("", nil)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if s.Wave.MaxZombiesAlive != DefaultMaxZombiesAlive {
			t.Errorf("expected default maxZombiesAlive, got %d", s.Wave.MaxZombiesAlive)
		}
	})

	t.Run("配置文件覆盖默认值", func(t *testing.T) {
		path := writeTestFile(t, "frontier.yaml", `
logLevel: debug
wave:
  baseZombiesPerWave: 8
  maxZombiesAlive: 4
environment:
  randomOrder: true
`)
		s, err := LoadSettings(path, nil)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if s.LogLevel != "debug" {
			t.Errorf("logLevel: expected debug, got %q", s.LogLevel)
		}
		if s.Wave.BaseZombiesPerWave != 8 || s.Wave.MaxZombiesAlive != 4 {
			t.Errorf("wave overrides not applied: %+v", s.Wave)
		}
		if !s.Environment.RandomOrder {
			t.Error("randomOrder should be true")
		}
		// 未出现在文件中的键保持默认
		if s.Wave.TimeBetweenWaves != DefaultTimeBetweenWaves {
			t.Errorf("timeBetweenWaves should keep default, got %.2f", s.Wave.TimeBetweenWaves)
		}
	})

	t.Run("环境变量覆盖配置文件", func(t *testing.T) {
		path := writeTestFile(t, "frontier.yaml", "wave:\n  maxZombiesAlive: 4\n")
		t.Setenv("FRONTIER_WAVE_MAXZOMBIESALIVE", "9")

		s, err := LoadSettings(path, nil)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if s.Wave.MaxZombiesAlive != 9 {
			t.Errorf("expected env override 9, got %d", s.Wave.MaxZombiesAlive)
		}
	})

	t.Run("命令行参数优先级最高", func(t *testing.T) {
		path := writeTestFile(t, "frontier.yaml", "wave:\n  maxZombiesAlive: 4\n")
		t.Setenv("FRONTIER_WAVE_MAXZOMBIESALIVE", "9")

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		RegisterFlags(fs)
		if err := fs.Parse([]string{"--max-alive=2", "--random-environments"}); err != nil {
			t.Fatalf("flag parse failed: %v", err)
		}

		s, err := LoadSettings(path, fs)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if s.Wave.MaxZombiesAlive != 2 {
			t.Errorf("expected flag override 2, got %d", s.Wave.MaxZombiesAlive)
		}
		if !s.Environment.RandomOrder {
			t.Error("random-environments flag should be applied")
		}
	})

	t.Run("未设置的命令行参数不覆盖配置文件", func(t *testing.T) {
		path := writeTestFile(t, "frontier.yaml", "environment:\n  wavesPerEnvironment: 5\n")

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		RegisterFlags(fs)
		if err := fs.Parse(nil); err != nil {
			t.Fatalf("flag parse failed: %v", err)
		}

		s, err := LoadSettings(path, fs)
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if s.Environment.WavesPerEnvironment != 5 {
			t.Errorf("expected file value 5, got %d", s.Environment.WavesPerEnvironment)
		}
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		if err == nil {
			t.Fatal("expected error for missing settings file")
		}
		if !strings.Contains(err.Error(), "failed to read settings file") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("YAML 格式错误", func(t *testing.T) {
		path := writeTestFile(t, "broken.yaml", "wave: [unclosed\n")
		if _, err := LoadSettings(path, nil); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"负的基础数量", func(s *Settings) { s.Wave.BaseZombiesPerWave = -1 }, "baseZombiesPerWave"},
		{"存活上限为0", func(s *Settings) { s.Wave.MaxZombiesAlive = 0 }, "maxZombiesAlive"},
		{"生成间隔下限为0", func(s *Settings) { s.Wave.MinSpawnInterval = 0 }, "minSpawnInterval"},
		{"每环境波数为0", func(s *Settings) { s.Environment.WavesPerEnvironment = 0 }, "wavesPerEnvironment"},
		{"负的切换时间", func(s *Settings) { s.Environment.TransitionTime = -1 }, "transitionTime"},
		{"生命值为0", func(s *Settings) { s.Hostile.Health = 0 }, "hostile.health"},
		{"攻击冷却为0", func(s *Settings) { s.Hostile.AttackCooldown = 0 }, "attackCooldown"},
		{"历史路径为空", func(s *Settings) { s.History.Path = "" }, "history.path"},
		{"记录名为空", func(s *Settings) { s.Records.AppName = "" }, "records.appName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := validateSettings(s)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestShippedSettingsFile(t *testing.T) {
	s, err := LoadSettings("../../data/frontier.yaml", nil)
	if err != nil {
		t.Fatalf("shipped settings should load: %v", err)
	}
	if *s != *DefaultSettings() {
		t.Errorf("shipped settings should match defaults:\n got  %+v\n want %+v", *s, *DefaultSettings())
	}
}
