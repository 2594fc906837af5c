package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/frontier/pkg/types"
)

func TestParseEnvironmentCatalog(t *testing.T) {
	t.Run("解析有效目录", func(t *testing.T) {
		data := []byte(`
environments:
  - name: Abandoned Town
    spawnPoints:
      - { x: 1, y: 0, z: 2 }
      - { x: -1, y: 0, z: -2 }
    ambience:
      skybox: overcast
      fogDensity: 0.01
  - name: Dark Forest
    spawnPoints: []
    ambience:
      ambientLight: { r: 0.3, g: 0.3, b: 0.4 }
`)
		catalog, err := ParseEnvironmentCatalog(data, "test")
		if err != nil {
			t.Fatalf("ParseEnvironmentCatalog failed: %v", err)
		}
		if catalog.Len() != 2 {
			t.Fatalf("expected 2 environments, got %d", catalog.Len())
		}

		town, ok := catalog.Get(0)
		if !ok {
			t.Fatal("environment 0 not found")
		}
		if town.Name != "Abandoned Town" || town.RotationIndex != 0 {
			t.Errorf("unexpected first environment: %+v", town)
		}
		if len(town.SpawnPoints) != 2 || town.SpawnPoints[0] != (types.Vec3{X: 1, Z: 2}) {
			t.Errorf("spawn points not parsed in order: %+v", town.SpawnPoints)
		}
		// 未设置环境光时默认白色
		if town.Ambience.AmbientLight != White {
			t.Errorf("expected default white light, got %+v", town.Ambience.AmbientLight)
		}

		forest, _ := catalog.Get(1)
		if forest.RotationIndex != 1 {
			t.Errorf("rotationIndex should follow list order, got %d", forest.RotationIndex)
		}
		// 没有生成点的环境可以加载
		if len(forest.SpawnPoints) != 0 {
			t.Errorf("expected no spawn points, got %d", len(forest.SpawnPoints))
		}

		names := catalog.Names()
		if len(names) != 2 || names[1] != "Dark Forest" {
			t.Errorf("unexpected names %v", names)
		}
	})

	t.Run("越界索引", func(t *testing.T) {
		catalog, err := NewEnvironmentCatalog(EnvironmentDefinition{Name: "Only"})
		if err != nil {
			t.Fatalf("NewEnvironmentCatalog failed: %v", err)
		}
		if _, ok := catalog.Get(-1); ok {
			t.Error("Get(-1) should fail")
		}
		if _, ok := catalog.Get(1); ok {
			t.Error("Get(1) should fail")
		}
	})

	t.Run("验证错误", func(t *testing.T) {
		tests := []struct {
			name    string
			yaml    string
			wantErr string
		}{
			{"空目录", "environments: []", "at least one environment"},
			{"缺少名称", "environments:\n  - name: ''\n", "name is required"},
			{"重复名称", "environments:\n  - name: A\n  - name: A\n", "already used"},
			{"负的雾密度", "environments:\n  - name: A\n    ambience: { fogDensity: -1 }\n", "fogDensity"},
			{"环境光越界", "environments:\n  - name: A\n    ambience: { ambientLight: { r: 2, g: 0, b: 0 } }\n", "ambientLight"},
			{"格式错误", "environments: [", "failed to parse"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseEnvironmentCatalog([]byte(tt.yaml), "test")
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
			})
		}
	})
}

func TestLoadEnvironmentCatalog(t *testing.T) {
	path := writeTestFile(t, "environments.yaml", "environments:\n  - name: Bunker\n    spawnPoints: [{ x: 3, y: 0, z: 4 }]\n")

	catalog, err := LoadEnvironmentCatalog(path)
	if err != nil {
		t.Fatalf("LoadEnvironmentCatalog failed: %v", err)
	}
	if catalog.Len() != 1 || catalog.Environments[0].Name != "Bunker" {
		t.Errorf("unexpected catalog %+v", catalog)
	}

	if _, err := LoadEnvironmentCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestShippedEnvironmentCatalog(t *testing.T) {
	catalog, err := LoadEnvironmentCatalog("../../data/environments.yaml")
	if err != nil {
		t.Fatalf("shipped catalog should load: %v", err)
	}
	if catalog.Len() < 2 {
		t.Errorf("shipped catalog should have several environments to rotate through, got %d", catalog.Len())
	}
	for _, env := range catalog.Environments {
		if len(env.SpawnPoints) == 0 {
			t.Errorf("shipped environment %s has no spawn points", env.Name)
		}
	}
}
