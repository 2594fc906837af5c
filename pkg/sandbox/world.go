// Package sandbox 提供一个进程内的 2D 世界，实现遭遇战需要的全部外部协作者
//
// 世界在 X/Z 平面上运行，玩家固定在原点：
//   - 敌对实体直线走向玩家，进入攻击距离的一半后停下
//   - 自动炮台按冷却向射程内最近的实体开火
//   - 死亡实体的尸体保留 corpseLinger 秒后移除
//   - 玩家生命值降到 0 时发出游戏结束信号
package sandbox

import (
	"fmt"
	"math"
	"sort"

	"github.com/gonewx/frontier/pkg/config"
	"github.com/gonewx/frontier/pkg/game"
	"github.com/gonewx/frontier/pkg/logging"
	"github.com/gonewx/frontier/pkg/types"
	"github.com/rs/zerolog"
)

// PlayerHandle 玩家的目标句柄
const PlayerHandle types.TargetHandle = 1

// DefaultArenaRadius 没有环境生成点时，默认生成点所在圆的半径
const DefaultArenaRadius = 40.0

// Combat 世界驱动遭遇战的入口（炮台命中和玩家死亡）
type Combat interface {
	ApplyDamage(handle types.EntityHandle, amount int) bool
	GameOver()
}

// Player 玩家状态
type Player struct {
	Position   types.Vec3
	Health     int
	MaxHealth  int
	Experience int
	Kills      int
}

// Alive 玩家是否存活
func (p Player) Alive() bool {
	return p.Health > 0
}

// Body 世界中的一个敌对实体
type Body struct {
	Handle      types.EntityHandle
	Variant     int
	Position    types.Vec3
	Speed       float64
	StopRange   float64
	Dead        bool
	CorpseTimer float64
}

// World 沙盒世界
type World struct {
	settings config.SandboxSettings
	linger   float64
	variants *config.VariantTable

	player     Player
	bodies     map[types.EntityHandle]*Body
	nextHandle types.EntityHandle

	spawnPoints map[string][]types.Vec3
	environment config.EnvironmentDefinition

	turretCooldown float64
	turretShots    int

	combat       Combat
	gameOverSent bool

	log zerolog.Logger
}

// NewWorld 创建沙盒世界
//
// 参数：
//   - settings: 运行参数（使用 Sandbox 和 Hostile.CorpseLinger）
//   - variants: 实体类型表，用于查询移动速度和攻击距离；可为 nil
func NewWorld(settings *config.Settings, variants *config.VariantTable) *World {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	w := &World{
		settings: settings.Sandbox,
		linger:   settings.Hostile.CorpseLinger,
		variants: variants,
		log:      logging.For("Sandbox"),
	}
	w.Reset()
	return w
}

// Attach 设置战斗入口（在遭遇战创建之后调用）
func (w *World) Attach(c Combat) {
	w.combat = c
}

// Reset 恢复玩家、清空所有实体，生成点恢复为默认的圆形布置
func (w *World) Reset() {
	w.player = Player{Health: w.settings.PlayerHealth, MaxHealth: w.settings.PlayerHealth}
	w.bodies = make(map[types.EntityHandle]*Body)
	w.turretCooldown = 0
	w.turretShots = 0
	w.gameOverSent = false
	w.spawnPoints = map[string][]types.Vec3{
		game.SpawnPointTag: RingPoints(8, DefaultArenaRadius),
	}
}

// RingPoints 在 X/Z 平面上均匀分布的 n 个点
func RingPoints(n int, radius float64) []types.Vec3 {
	points := make([]types.Vec3, n)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = types.Vec3{X: radius * math.Cos(angle), Z: radius * math.Sin(angle)}
	}
	return points
}

// SetSpawnPoints 替换某个标签的生成点
func (w *World) SetSpawnPoints(tag string, points []types.Vec3) {
	w.spawnPoints[tag] = append([]types.Vec3(nil), points...)
}

// FindSpawnPoints 实现 game.SpawnPointLocator
func (w *World) FindSpawnPoints(tag string) []types.Vec3 {
	return append([]types.Vec3(nil), w.spawnPoints[tag]...)
}

// ApplyEnvironment 实现 game.EnvironmentApplier
// 环境的生成点同时挂到 SpawnPoint 标签上
func (w *World) ApplyEnvironment(env config.EnvironmentDefinition) {
	w.environment = env
	if len(env.SpawnPoints) > 0 {
		w.SetSpawnPoints(game.SpawnPointTag, env.SpawnPoints)
	}
	w.log.Debug().
		Str("environment", env.Name).
		Str("skybox", env.Ambience.Skybox).
		Float64("fog", env.Ambience.FogDensity).
		Msg("ambience applied")
}

// Environment 最近一次应用的环境
func (w *World) Environment() config.EnvironmentDefinition {
	return w.environment
}

// Instantiate 实现 game.EntityInstantiator
func (w *World) Instantiate(variant int, pos types.Vec3) (types.EntityHandle, error) {
	if !w.player.Alive() {
		return types.NoEntity, fmt.Errorf("player is dead, refusing to spawn")
	}
	def := w.variants.Variant(variant)
	speed := def.MoveSpeed
	if speed <= 0 {
		speed = w.settings.HostileSpeed
	}

	w.nextHandle++
	body := &Body{
		Handle:    w.nextHandle,
		Variant:   variant,
		Position:  pos,
		Speed:     speed,
		StopRange: def.AttackRange / 2,
	}
	w.bodies[body.Handle] = body
	return body.Handle, nil
}

// Despawn 实现 game.EntityInstantiator：尸体保留一段时间后移除
func (w *World) Despawn(handle types.EntityHandle) {
	body, ok := w.bodies[handle]
	if !ok {
		return
	}
	if w.linger <= 0 {
		delete(w.bodies, handle)
		return
	}
	body.Dead = true
	body.CorpseTimer = w.linger
}

// FindDamageTarget 实现 game.TargetProvider
func (w *World) FindDamageTarget() (types.TargetHandle, bool) {
	return PlayerHandle, w.player.Alive()
}

// TakeDamage 实现 game.TargetProvider
func (w *World) TakeDamage(target types.TargetHandle, amount int) {
	if target != PlayerHandle || !w.player.Alive() {
		return
	}
	w.player.Health -= amount
	if w.player.Health < 0 {
		w.player.Health = 0
	}
	w.log.Debug().Int("damage", amount).Int("health", w.player.Health).Msg("player hit")
}

// AddExperience 实现 game.TargetProvider
func (w *World) AddExperience(amount int) {
	w.player.Experience += amount
}

// AddKill 实现 game.TargetProvider
func (w *World) AddKill() {
	w.player.Kills++
}

// DistanceToTarget 实现 game.DistanceProvider
func (w *World) DistanceToTarget(entity types.EntityHandle, target types.TargetHandle) (float64, bool) {
	body, ok := w.bodies[entity]
	if !ok || body.Dead || target != PlayerHandle {
		return 0, false
	}
	return types.Distance(body.Position, w.player.Position), true
}

// Step 推进世界：移动、炮台开火、尸体计时、玩家死亡检查
func (w *World) Step(deltaTime float64) {
	for _, body := range w.sortedBodies() {
		if body.Dead {
			body.CorpseTimer -= deltaTime
			if body.CorpseTimer <= 0 {
				delete(w.bodies, body.Handle)
			}
			continue
		}
		w.move(body, deltaTime)
	}

	w.fireTurret(deltaTime)

	if !w.player.Alive() && !w.gameOverSent {
		w.gameOverSent = true
		w.log.Info().Int("kills", w.player.Kills).Int("xp", w.player.Experience).Msg("player died")
		if w.combat != nil {
			w.combat.GameOver()
		}
	}
}

func (w *World) move(body *Body, deltaTime float64) {
	offset := w.player.Position.Sub(body.Position)
	dist := offset.Len()
	if dist <= body.StopRange || dist == 0 {
		return
	}
	step := body.Speed * deltaTime
	if step > dist-body.StopRange {
		step = dist - body.StopRange
	}
	body.Position = body.Position.Add(offset.Scale(step / dist))
}

// fireTurret 向射程内最近的存活实体开火
func (w *World) fireTurret(deltaTime float64) {
	if w.turretCooldown > 0 {
		w.turretCooldown -= deltaTime
		return
	}
	if w.combat == nil || !w.player.Alive() {
		return
	}

	var nearest *Body
	best := w.settings.TurretRange
	for _, body := range w.sortedBodies() {
		if body.Dead {
			continue
		}
		if d := types.Distance(body.Position, w.player.Position); d <= best {
			nearest, best = body, d
		}
	}
	if nearest == nil {
		return
	}

	if w.combat.ApplyDamage(nearest.Handle, w.settings.TurretDamage) {
		w.turretShots++
		w.turretCooldown = w.settings.TurretCooldown
	}
}

func (w *World) sortedBodies() []*Body {
	out := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Player 玩家状态副本
func (w *World) Player() Player {
	return w.player
}

// Bodies 所有实体（含尸体）的副本，按句柄排序
func (w *World) Bodies() []Body {
	sorted := w.sortedBodies()
	out := make([]Body, len(sorted))
	for i, b := range sorted {
		out[i] = *b
	}
	return out
}

// TurretShots 炮台命中次数
func (w *World) TurretShots() int {
	return w.turretShots
}
