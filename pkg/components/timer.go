package components

// TimerComponent 通用一次性计时器组件
// 用于开局延迟等“等待 N 秒后触发一次”的场景
type TimerComponent struct {
	Name        string  // 计时器名称，如 "game_start_delay"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 计时器是否已完成
}

// Advance 推进计时器，返回本次调用是否刚好完成
// 已完成的计时器不会再次触发
func (t *TimerComponent) Advance(deltaTime float64) bool {
	if t.IsReady {
		return false
	}
	t.CurrentTime += deltaTime
	if t.CurrentTime >= t.TargetTime {
		t.IsReady = true
		return true
	}
	return false
}
