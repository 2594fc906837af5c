// Package ecs 提供遭遇战核心使用的最小实体-组件存储
//
// 组件按类型分桶存储（类型 -> 实体 -> 组件），单类型查询只需遍历一个桶。
// 删除采用延迟策略：DestroyEntity 只做标记，RemoveMarkedEntities 在帧末统一清理，
// 保证同一帧内其他系统读到的实体集合是稳定的。
package ecs

import "reflect"

// EntityID 是实体的唯一标识符，0 保留为无效ID
type EntityID uint64

// EntityManager 管理所有实体和组件
type EntityManager struct {
	nextID uint64
	// 存活实体集合
	alive map[EntityID]struct{}
	// 组件桶: ComponentType -> EntityID -> Component实例
	stores map[reflect.Type]map[EntityID]interface{}
	// 待删除的实体ID列表
	pending []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1,
		alive:  make(map[EntityID]struct{}),
		stores: make(map[reflect.Type]map[EntityID]interface{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// DestroyEntity 标记实体待删除（不立即删除）
func (em *EntityManager) DestroyEntity(id EntityID) {
	if _, ok := em.alive[id]; ok {
		em.pending = append(em.pending, id)
	}
}

// Exists 检查实体是否存在（已标记但未清理的实体仍视为存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// Count 返回存活实体数量
func (em *EntityManager) Count() int {
	return len(em.alive)
}

// AddComponent 为实体添加组件，同类型组件会被覆盖
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	em.put(id, reflect.TypeOf(component), component)
}

func (em *EntityManager) put(id EntityID, t reflect.Type, component interface{}) {
	if _, ok := em.alive[id]; !ok {
		return
	}
	store, ok := em.stores[t]
	if !ok {
		store = make(map[EntityID]interface{})
		em.stores[t] = store
	}
	store[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if store, ok := em.stores[componentType]; ok {
		delete(store, id)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	store, ok := em.stores[componentType]
	if !ok {
		return nil, false
	}
	comp, ok := store[id]
	return comp, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.GetComponent(id, componentType)
	return ok
}

// RemoveMarkedEntities 清理所有标记删除的实体及其组件
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.pending {
		delete(em.alive, id)
		for _, store := range em.stores {
			delete(store, id)
		}
	}
	em.pending = em.pending[:0]
}

// Clear 删除所有实体；ID 计数不回退，旧句柄不会与新实体冲突
func (em *EntityManager) Clear() {
	em.alive = make(map[EntityID]struct{})
	em.stores = make(map[reflect.Type]map[EntityID]interface{})
	em.pending = em.pending[:0]
}

// GetEntitiesWith 查询同时拥有所有指定组件类型的实体（无序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	if len(componentTypes) == 0 {
		for id := range em.alive {
			result = append(result, id)
		}
		return result
	}

	// 从最小的桶开始遍历
	smallest := em.stores[componentTypes[0]]
	for _, ct := range componentTypes[1:] {
		if s := em.stores[ct]; len(s) < len(smallest) {
			smallest = s
		}
	}

	for id := range smallest {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := em.stores[ct][id]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	return result
}
