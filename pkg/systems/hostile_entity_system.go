package systems

import (
	"fmt"

	"github.com/gonewx/frontier/pkg/components"
	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/ecs"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/types"
	"github.com/rs/zerolog"
)

// HostileEntitySystem 敌对实体战斗状态机
//
// 状态转换：
//   - Chasing ↔ Attacking：按到目标的距离与攻击距离比较
//   - Chasing/Attacking → Staggered：受到伤害，固定时长后回到 Chasing
//   - 任意 → Dead：生命值 <= 0，终态
//
// 死亡时向账本和奖励接收方各报告一次；死亡记录在同一帧末尾移交外部世界回收。
// 移动/寻路由外部世界负责，本系统只读距离。
type HostileEntitySystem struct {
	entityManager *ecs.EntityManager
	ledger        *game.EntityLifecycleLedger
	target        game.TargetProvider     // 可为 nil：实体无法造成伤害
	distances     game.DistanceProvider   // 可为 nil：实体永远处于追击
	instantiator  game.EntityInstantiator // 可为 nil：死亡后只移除逻辑记录
	observers     game.Observers

	staggerDuration float64

	// handles 外部句柄 -> 记录实体
	handles map[types.EntityHandle]ecs.EntityID

	missingLogged bool
	log           zerolog.Logger
}

// NewHostileEntitySystem 创建敌对实体系统
func NewHostileEntitySystem(em *ecs.EntityManager, ledger *game.EntityLifecycleLedger, target game.TargetProvider, distances game.DistanceProvider, instantiator game.EntityInstantiator, observers game.Observers, staggerDuration float64) *HostileEntitySystem {
	return &HostileEntitySystem{
		entityManager:   em,
		ledger:          ledger,
		target:          target,
		distances:       distances,
		instantiator:    instantiator,
		observers:       observers,
		staggerDuration: staggerDuration,
		handles:         make(map[types.EntityHandle]ecs.EntityID),
		log:             logging.For("HostileEntitySystem"),
	}
}

// Register 为新生成的实体创建逻辑记录，账本存活数 +1
//
// 参数：
//   - handle: 外部世界句柄
//   - variantIndex, variant: 实体类型
//   - wave: 所属波次
//   - reward: 死亡奖励
//
// 返回：
//   - error: 句柄已有记录（包括尚未清理的死亡记录）时返回 ErrDuplicateHandle，账本不变
func (s *HostileEntitySystem) Register(handle types.EntityHandle, variantIndex int, variant config.VariantDefinition, wave, reward int) (ecs.EntityID, error) {
	if existing, ok := s.handles[handle]; ok {
		return existing, fmt.Errorf("handle %d already registered: %w", handle, game.ErrDuplicateHandle)
	}

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.HostileComponent{
		Handle:          handle,
		Health:          variant.Health,
		MaxHealth:       variant.Health,
		RewardValue:     reward,
		Variant:         variantIndex,
		Wave:            wave,
		State:           components.CombatChasing,
		Damage:          variant.Damage,
		AttackRange:     variant.AttackRange,
		AttackCooldown:  variant.AttackCooldown,
		StaggerDuration: s.staggerDuration,
	})
	s.handles[handle] = id
	s.ledger.OnSpawned()

	s.log.Debug().Uint64("handle", uint64(handle)).Int("variant", variantIndex).Int("health", variant.Health).Msg("hostile registered")
	return id, nil
}

func (s *HostileEntitySystem) record(handle types.EntityHandle) (*components.HostileComponent, bool) {
	id, ok := s.handles[handle]
	if !ok {
		return nil, false
	}
	return ecs.GetComponent[*components.HostileComponent](s.entityManager, id)
}

// ApplyDamage 对实体造成伤害
//
// 生命值下限为 0；存活时进入硬直，降到 0 时死亡。
// 返回是否命中了一个存活的实体。
func (s *HostileEntitySystem) ApplyDamage(handle types.EntityHandle, amount int) bool {
	rec, ok := s.record(handle)
	if !ok || rec.State == components.CombatDead {
		return false
	}
	if amount <= 0 {
		return true
	}

	rec.Health -= amount
	if rec.Health <= 0 {
		rec.Health = 0
		s.die(rec)
		return true
	}

	rec.State = components.CombatStaggered
	rec.StaggerTimer = rec.StaggerDuration
	return true
}

// Die 令实体死亡；重复调用不会重复结算
func (s *HostileEntitySystem) Die(handle types.EntityHandle) {
	if rec, ok := s.record(handle); ok {
		s.die(rec)
	}
}

func (s *HostileEntitySystem) die(rec *components.HostileComponent) {
	if rec.DeathReported {
		return
	}
	rec.DeathReported = true
	rec.State = components.CombatDead

	s.ledger.OnDied(rec.RewardValue)
	if s.target != nil {
		s.target.AddExperience(rec.RewardValue)
		s.target.AddKill()
	}
	s.observers.EntityDied(rec.Wave, rec.RewardValue)

	s.log.Debug().Uint64("handle", uint64(rec.Handle)).Int("reward", rec.RewardValue).Msg("hostile died")
}

// Update 推进所有实体的状态机
func (s *HostileEntitySystem) Update(deltaTime float64) {
	target, hasTarget := s.findTarget()

	for _, id := range ecs.GetEntitiesWith1[*components.HostileComponent](s.entityManager) {
		rec, _ := ecs.GetComponent[*components.HostileComponent](s.entityManager, id)
		if rec.State == components.CombatDead {
			continue
		}
		if rec.Health <= 0 {
			s.die(rec)
			continue
		}

		if rec.CooldownTimer > 0 {
			rec.CooldownTimer -= deltaTime
			if rec.CooldownTimer < 0 {
				rec.CooldownTimer = 0
			}
		}

		if rec.State == components.CombatStaggered {
			rec.StaggerTimer -= deltaTime
			if rec.StaggerTimer <= 0 {
				rec.StaggerTimer = 0
				rec.State = components.CombatChasing
			}
			continue
		}

		if !hasTarget {
			rec.State = components.CombatChasing
			continue
		}

		dist, ok := s.distances.DistanceToTarget(rec.Handle, target)
		if !ok || dist > rec.AttackRange {
			rec.State = components.CombatChasing
			continue
		}

		rec.State = components.CombatAttacking
		if rec.CooldownTimer <= 0 {
			s.target.TakeDamage(target, rec.Damage)
			rec.CooldownTimer = rec.AttackCooldown
		}
	}
}

// findTarget 查找目标；缺少目标或距离查询时只记录一次警告
func (s *HostileEntitySystem) findTarget() (types.TargetHandle, bool) {
	if s.target == nil || s.distances == nil {
		if !s.missingLogged {
			s.missingLogged = true
			s.log.Warn().Err(game.ErrMissingCollaborator).
				Bool("target", s.target != nil).
				Bool("distances", s.distances != nil).
				Msg("hostiles cannot attack")
		}
		return 0, false
	}
	return s.target.FindDamageTarget()
}

// PurgeDead 将死亡记录移交外部世界并从 ECS 移除
// 返回移除的数量
func (s *HostileEntitySystem) PurgeDead() int {
	purged := 0
	for _, id := range ecs.GetEntitiesWith1[*components.HostileComponent](s.entityManager) {
		rec, _ := ecs.GetComponent[*components.HostileComponent](s.entityManager, id)
		if rec.State != components.CombatDead {
			continue
		}
		s.release(id, rec)
		purged++
	}
	if purged > 0 {
		s.entityManager.RemoveMarkedEntities()
	}
	return purged
}

// Clear 移除所有记录（重新开始时使用），不计入击杀
func (s *HostileEntitySystem) Clear() {
	for _, id := range ecs.GetEntitiesWith1[*components.HostileComponent](s.entityManager) {
		rec, _ := ecs.GetComponent[*components.HostileComponent](s.entityManager, id)
		s.release(id, rec)
	}
	s.entityManager.RemoveMarkedEntities()
	s.handles = make(map[types.EntityHandle]ecs.EntityID)
}

func (s *HostileEntitySystem) release(id ecs.EntityID, rec *components.HostileComponent) {
	if s.instantiator != nil {
		s.instantiator.Despawn(rec.Handle)
	}
	delete(s.handles, rec.Handle)
	s.entityManager.DestroyEntity(id)
}

// Record 按句柄查询记录（副本）
func (s *HostileEntitySystem) Record(handle types.EntityHandle) (components.HostileComponent, bool) {
	rec, ok := s.record(handle)
	if !ok {
		return components.HostileComponent{}, false
	}
	return *rec, true
}

// Records 所有记录的副本，按生成顺序
func (s *HostileEntitySystem) Records() []components.HostileComponent {
	ids := ecs.GetEntitiesWith1[*components.HostileComponent](s.entityManager)
	out := make([]components.HostileComponent, 0, len(ids))
	for _, id := range ids {
		rec, _ := ecs.GetComponent[*components.HostileComponent](s.entityManager, id)
		out = append(out, *rec)
	}
	return out
}
