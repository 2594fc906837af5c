package game

import "errors"

// 遭遇战核心的错误分类
// 调用方使用 errors.Is 判断；这些错误都不会中断遭遇战循环
var (
	// ErrMissingCollaborator 外部协作者（目标、环境、实体工厂等）缺失
	// 记录日志后以降级模式继续运行
	ErrMissingCollaborator = errors.New("missing collaborator")

	// ErrNoSpawnPointsAvailable 当前环境没有可用的生成点
	// 生成器在下一帧重试同一次生成，不会导致波次失败
	ErrNoSpawnPointsAvailable = errors.New("no spawn points available")

	// ErrInvalidEnvironmentIndex 环境索引越界，当前环境保持不变
	ErrInvalidEnvironmentIndex = errors.New("invalid environment index")

	// ErrDuplicateHandle 实体工厂返回了仍在使用的句柄，新实体不登记
	ErrDuplicateHandle = errors.New("duplicate entity handle")
)
