// Package history 将遭遇战的波次和整局结果写入本地 SQLite 数据库
//
// Store 实现 game.EncounterObserver：第一次 WaveStarted 时开启一局（生成 uuid），
// 每个 WaveCompleted 写一行波次记录，EncounterEnded 补全整局记录。
// 数据库写入失败只记录日志，不影响遭遇战运行。
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath 内存数据库（不落盘）
const MemoryPath = ":memory:"

// RunRecord 一局的结果
type RunRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	StartedAt     time.Time
	EndedAt       *time.Time `gorm:"index"`
	WavesSurvived int
	Kills         int
	Experience    int
	Environment   string  `gorm:"size:127"`
	Duration      float64 // 秒
}

// WaveRecord 一个已完成波次
type WaveRecord struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"index;size:36"`
	Wave        int
	Environment string `gorm:"size:127"`
	Spawned     int
	Kills       int
	Reward      int
	Duration    float64
	CompletedAt time.Time
}

// Models 需要迁移的表
var Models = []interface{}{
	&RunRecord{},
	&WaveRecord{},
}

// Store 历史记录存储
type Store struct {
	game.BaseObserver

	db    *gorm.DB
	path  string
	runID string

	now func() time.Time
	log zerolog.Logger
}

// Open 打开（或创建）历史数据库并迁移表结构
//
// 参数：
//   - path: SQLite 文件路径；MemoryPath 表示内存数据库
//
// 返回：
//   - error: 打开或迁移失败
func Open(path string) (*Store, error) {
	if path == "" {
		path = MemoryPath
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}

	if path == MemoryPath {
		// 每个连接都是独立的内存库，限制为单连接
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema in %s: %w", path, err)
	}

	s := &Store{
		db:   db,
		path: path,
		now:  time.Now,
		log:  logging.For("History"),
	}
	s.log.Info().Str("path", path).Msg("history database ready")
	return s, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CurrentRun 当前进行中的一局 ID，没有时为空
func (s *Store) CurrentRun() string {
	return s.runID
}

// beginRun 开启新的一局
func (s *Store) beginRun() {
	run := RunRecord{
		ID:        uuid.NewString(),
		StartedAt: s.now(),
	}
	if err := s.db.Create(&run).Error; err != nil {
		s.log.Error().Err(err).Msg("failed to record run start")
		return
	}
	s.runID = run.ID
	s.log.Debug().Str("run", run.ID).Msg("run started")
}

// WaveStarted 第一次波次开始时开启一局
func (s *Store) WaveStarted(int, int) {
	if s.runID == "" {
		s.beginRun()
	}
}

// WaveCompleted 写入波次记录
func (s *Store) WaveCompleted(summary game.WaveSummary) {
	if s.runID == "" {
		s.beginRun()
	}
	rec := WaveRecord{
		RunID:       s.runID,
		Wave:        summary.Wave,
		Environment: summary.Environment,
		Spawned:     summary.Spawned,
		Kills:       summary.Kills,
		Reward:      summary.Reward,
		Duration:    summary.Duration,
		CompletedAt: s.now(),
	}
	if err := s.db.Create(&rec).Error; err != nil {
		s.log.Error().Err(err).Int("wave", summary.Wave).Msg("failed to record wave")
	}
}

// EncounterEnded 补全整局记录；下一次 WaveStarted 会开启新的一局
func (s *Store) EncounterEnded(summary game.RunSummary) {
	if s.runID == "" {
		s.beginRun()
		if s.runID == "" {
			return
		}
	}

	ended := s.now()
	err := s.db.Model(&RunRecord{ID: s.runID}).Updates(map[string]interface{}{
		"ended_at":       ended,
		"waves_survived": summary.WavesSurvived,
		"kills":          summary.Kills,
		"experience":     summary.Experience,
		"environment":    summary.Environment,
		"duration":       summary.Duration,
	}).Error
	if err != nil {
		s.log.Error().Err(err).Str("run", s.runID).Msg("failed to record run end")
	} else {
		s.log.Info().Str("run", s.runID).Int("waves", summary.WavesSurvived).Int("kills", summary.Kills).Msg("run recorded")
	}
	s.runID = ""
}

// Run 按 ID 查询一局
func (s *Store) Run(id string) (RunRecord, error) {
	var run RunRecord
	if err := s.db.First(&run, "id = ?", id).Error; err != nil {
		return RunRecord{}, fmt.Errorf("run %s: %w", id, err)
	}
	return run, nil
}

// RecentRuns 最近结束的若干局，最新的在前
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := s.db.Where("ended_at IS NOT NULL").
		Order("ended_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// BestRun 存活波次最多的一局（波次相同时比较击杀数）
//
// 返回：
//   - bool: 还没有结束的局时为 false
func (s *Store) BestRun() (RunRecord, bool, error) {
	var run RunRecord
	err := s.db.Where("ended_at IS NOT NULL").
		Order("waves_survived DESC").
		Order("kills DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, fmt.Errorf("failed to query best run: %w", err)
	}
	return run, true, nil
}

// Waves 一局中已完成的波次，按波次顺序
func (s *Store) Waves(runID string) ([]WaveRecord, error) {
	var waves []WaveRecord
	if err := s.db.Where("run_id = ?", runID).Order("wave ASC").Find(&waves).Error; err != nil {
		return nil, fmt.Errorf("failed to query waves of run %s: %w", runID, err)
	}
	return waves, nil
}
