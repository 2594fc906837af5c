package game

import (
	"fmt"

	"github.com/gonewx/frontier/pkg/logging"
	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// BestRecords 跨局保存的最佳成绩
type BestRecords struct {
	MostWaves      int `yaml:"mostWaves"`      // 最多完成波次
	MostKills      int `yaml:"mostKills"`      // 单局最多击杀
	MostExperience int `yaml:"mostExperience"` // 单局最多经验
	RunsPlayed     int `yaml:"runsPlayed"`     // 已结束的对局数
}

// 存储路径常量
const (
	recordsObject   = "records"
	recordsProperty = "best"
)

// RecordManager 最佳记录管理器
// 负责最佳成绩的加载、更新和保存；作为 EncounterObserver 在每局结束时自动提交
type RecordManager struct {
	BaseObserver

	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式，仅内存记录）
	records      BestRecords
	log          zerolog.Logger
}

// OpenRecordStorage 打开 gdata 存储
func OpenRecordStorage(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open record storage %q: %w", appName, err)
	}
	return m, nil
}

// NewRecordManager 创建记录管理器并尝试加载已保存的记录
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式）
//
// 加载失败不是致命错误，记录从零开始
func NewRecordManager(gdataManager *gdata.Manager) *RecordManager {
	rm := &RecordManager{
		gdataManager: gdataManager,
		log:          logging.For("RecordManager"),
	}

	if err := rm.Load(); err != nil {
		rm.log.Warn().Err(err).Msg("failed to load records, starting fresh")
	}

	return rm
}

// Load 从 gdata 加载记录
//
// gdataManager 为 nil 或记录不存在时保留空记录
func (rm *RecordManager) Load() error {
	rm.records = BestRecords{}

	if rm.gdataManager == nil {
		return nil
	}
	if !rm.gdataManager.ObjectPropExists(recordsObject, recordsProperty) {
		return nil
	}

	data, err := rm.gdataManager.LoadObjectProp(recordsObject, recordsProperty)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	var loaded BestRecords
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}

	rm.records = loaded
	rm.log.Debug().Int("mostWaves", loaded.MostWaves).Int("runs", loaded.RunsPlayed).Msg("records loaded")
	return nil
}

// Save 保存记录到 gdata
// gdataManager 为 nil 时直接返回 nil
func (rm *RecordManager) Save() error {
	if rm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(rm.records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if err := rm.gdataManager.SaveObjectProp(recordsObject, recordsProperty, data); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// Records 返回当前记录
func (rm *RecordManager) Records() BestRecords {
	return rm.records
}

// Submit 用一局的统计更新记录
// 返回是否刷新了任意一项最佳成绩
func (rm *RecordManager) Submit(run RunSummary) bool {
	improved := false
	rm.records.RunsPlayed++

	if run.WavesSurvived > rm.records.MostWaves {
		rm.records.MostWaves = run.WavesSurvived
		improved = true
	}
	if run.Kills > rm.records.MostKills {
		rm.records.MostKills = run.Kills
		improved = true
	}
	if run.Experience > rm.records.MostExperience {
		rm.records.MostExperience = run.Experience
		improved = true
	}
	return improved
}

// EncounterEnded 提交并保存本局成绩
func (rm *RecordManager) EncounterEnded(run RunSummary) {
	if rm.Submit(run) {
		rm.log.Info().
			Int("waves", rm.records.MostWaves).
			Int("kills", rm.records.MostKills).
			Int("xp", rm.records.MostExperience).
			Msg("new best record")
	}
	if err := rm.Save(); err != nil {
		rm.log.Warn().Err(err).Msg("failed to save records")
	}
}
