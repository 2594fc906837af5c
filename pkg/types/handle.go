package types

// EntityHandle 外部世界实例化出的敌对实体句柄，核心只当作不透明值传递
type EntityHandle uint64

// TargetHandle 伤害目标（玩家）句柄
type TargetHandle uint64

// NoEntity 无效实体句柄
const NoEntity EntityHandle = 0
