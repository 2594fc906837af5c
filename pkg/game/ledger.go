package game

// LedgerSnapshot 计数器的只读快照
type LedgerSnapshot struct {
	LiveCount   int // 当前存活的敌对实体数量
	TotalKills  int // 累计击杀
	TotalReward int // 累计发放的奖励
}

// EntityLifecycleLedger 实体生命周期账本
//
// 职责：
//   - 记录存活数量、累计击杀和累计奖励
//   - 供 WaveScheduler 判断波次是否结束，供 SpawnGenerator 做存活上限控制
//
// 单线程使用，不加锁；所有计数器保持非负
type EntityLifecycleLedger struct {
	liveCount   int
	totalKills  int
	totalReward int
}

// NewEntityLifecycleLedger 创建空账本
func NewEntityLifecycleLedger() *EntityLifecycleLedger {
	return &EntityLifecycleLedger{}
}

// OnSpawned 记录一次生成
func (l *EntityLifecycleLedger) OnSpawned() {
	l.liveCount++
}

// OnDied 记录一次死亡并累加奖励
// liveCount 下限为 0，负奖励按 0 计
func (l *EntityLifecycleLedger) OnDied(reward int) {
	if l.liveCount > 0 {
		l.liveCount--
	}
	l.totalKills++
	if reward > 0 {
		l.totalReward += reward
	}
}

// LiveCount 当前存活数量
func (l *EntityLifecycleLedger) LiveCount() int {
	return l.liveCount
}

// Snapshot 返回当前计数器快照
func (l *EntityLifecycleLedger) Snapshot() LedgerSnapshot {
	return LedgerSnapshot{
		LiveCount:   l.liveCount,
		TotalKills:  l.totalKills,
		TotalReward: l.totalReward,
	}
}

// Reset 清零所有计数器
func (l *EntityLifecycleLedger) Reset() {
	*l = EntityLifecycleLedger{}
}
