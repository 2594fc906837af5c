package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

func openTestRecordStorage(t *testing.T) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{
		AppName: fmt.Sprintf("frontier_records_test_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

func TestRecordManagerSubmit(t *testing.T) {
	rm := NewRecordManager(nil)

	if !rm.Submit(RunSummary{WavesSurvived: 3, Kills: 20, Experience: 500}) {
		t.Error("first run should set a record")
	}
	if rm.Submit(RunSummary{WavesSurvived: 1, Kills: 5, Experience: 100}) {
		t.Error("worse run should not set a record")
	}
	if !rm.Submit(RunSummary{WavesSurvived: 2, Kills: 30, Experience: 100}) {
		t.Error("more kills should set a record")
	}

	got := rm.Records()
	want := BestRecords{MostWaves: 3, MostKills: 30, MostExperience: 500, RunsPlayed: 3}
	if got != want {
		t.Errorf("Records() = %+v, want %+v", got, want)
	}
}

func TestRecordManagerNilGdata(t *testing.T) {
	rm := NewRecordManager(nil)

	// 降级模式：保存不报错，记录只保留在内存
	rm.EncounterEnded(RunSummary{WavesSurvived: 4})
	if err := rm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got %v", err)
	}
	if rm.Records().MostWaves != 4 {
		t.Errorf("in-memory record lost: %+v", rm.Records())
	}
}

func TestRecordManagerPersistence(t *testing.T) {
	m := openTestRecordStorage(t)

	rm := NewRecordManager(m)
	if rm.Records() != (BestRecords{}) {
		t.Fatalf("fresh storage should have empty records, got %+v", rm.Records())
	}

	rm.EncounterEnded(RunSummary{WavesSurvived: 6, Kills: 42, Experience: 1234})

	// 新实例从存储读取
	reloaded := NewRecordManager(m)
	want := BestRecords{MostWaves: 6, MostKills: 42, MostExperience: 1234, RunsPlayed: 1}
	if reloaded.Records() != want {
		t.Errorf("reloaded records = %+v, want %+v", reloaded.Records(), want)
	}
}

func TestRecordManagerCorruptData(t *testing.T) {
	m := openTestRecordStorage(t)
	if err := m.SaveObjectProp(recordsObject, recordsProperty, []byte("mostWaves: [not-an-int")); err != nil {
		t.Fatalf("Failed to seed corrupt data: %v", err)
	}

	rm := NewRecordManager(m)
	if rm.Records() != (BestRecords{}) {
		t.Errorf("corrupt data should fall back to empty records, got %+v", rm.Records())
	}
	if err := rm.Load(); err == nil {
		t.Error("Load() should report the unmarshal error")
	}
}
