package components

// SpawnBudget 单个波次的生成预算
// 由 WaveScheduler 在波次开始时创建，交给 SpawnGenerator 独占；
// SpawnedSoFar == TargetCount 后本波生成结束
type SpawnBudget struct {
	TargetCount  int // 本波需要生成的实体总数
	SpawnedSoFar int // 已生成数量
	LiveCap      int // 场上同时存活上限
}

// Exhausted 本波是否已全部生成
func (b *SpawnBudget) Exhausted() bool {
	return b.SpawnedSoFar >= b.TargetCount
}

// Remaining 剩余待生成数量
func (b *SpawnBudget) Remaining() int {
	if b.SpawnedSoFar >= b.TargetCount {
		return 0
	}
	return b.TargetCount - b.SpawnedSoFar
}
