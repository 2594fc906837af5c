package game

// WaveSummary 单个波次的统计
type WaveSummary struct {
	Wave        int
	Environment string
	Spawned     int
	Kills       int
	Reward      int
	Duration    float64 // 从开始生成到波次结束（秒）
}

// RunSummary 整局统计（游戏结束时产生）
type RunSummary struct {
	WavesSurvived int // 已完成的波次数（当前波次 - 1）
	Kills         int
	Experience    int
	Environment   string  // 结束时所在的环境
	Duration      float64 // 开局以来的时间（秒，不含暂停）
}

// EncounterObserver 遭遇战事件观察者
// 历史记录、最佳记录和指标都通过这个接口接入，核心不依赖它们
type EncounterObserver interface {
	WaveStarted(wave, targetCount int)
	EntitySpawned(wave, variant int)
	EntityDied(wave, reward int)
	WaveCompleted(summary WaveSummary)
	EnvironmentChanged(name string)
	EncounterEnded(summary RunSummary)
}

// BaseObserver 所有方法为空实现，嵌入后只需覆盖关心的事件
type BaseObserver struct{}

func (BaseObserver) WaveStarted(int, int)      {}
func (BaseObserver) EntitySpawned(int, int)    {}
func (BaseObserver) EntityDied(int, int)       {}
func (BaseObserver) WaveCompleted(WaveSummary) {}
func (BaseObserver) EnvironmentChanged(string) {}
func (BaseObserver) EncounterEnded(RunSummary) {}

// Observers 按注册顺序分发事件
type Observers []EncounterObserver

func (o Observers) WaveStarted(wave, targetCount int) {
	for _, obs := range o {
		obs.WaveStarted(wave, targetCount)
	}
}

func (o Observers) EntitySpawned(wave, variant int) {
	for _, obs := range o {
		obs.EntitySpawned(wave, variant)
	}
}

func (o Observers) EntityDied(wave, reward int) {
	for _, obs := range o {
		obs.EntityDied(wave, reward)
	}
}

func (o Observers) WaveCompleted(summary WaveSummary) {
	for _, obs := range o {
		obs.WaveCompleted(summary)
	}
}

func (o Observers) EnvironmentChanged(name string) {
	for _, obs := range o {
		obs.EnvironmentChanged(name)
	}
}

func (o Observers) EncounterEnded(summary RunSummary) {
	for _, obs := range o {
		obs.EncounterEnded(summary)
	}
}
