package ecs

import (
	"reflect"
	"sort"
)

// 泛型辅助函数：系统代码统一通过这些函数访问组件
// T 通常是组件指针类型，如 *components.HostileComponent

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddComponent 为实体添加 T 类型组件
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.put(id, typeOf[T](), component)
}

// GetComponent 获取实体的 T 类型组件
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// HasComponent 检查实体是否拥有 T 类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// RemoveComponent 移除实体的 T 类型组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// GetEntitiesWith1 查询拥有 T 类型组件的所有实体
// 结果按 EntityID 升序，保证同一帧内的处理顺序与生成顺序一致
func GetEntitiesWith1[T any](em *EntityManager) []EntityID {
	ids := em.GetEntitiesWith(typeOf[T]())
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
