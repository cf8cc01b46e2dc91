// Package physics 基于 jakecoffman/cp 的无头物理：静态地形、角色刚体、接地与前方地面查询。
package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"sidebrawl/entity"
)

const (
	groundCategory uint = 1 << 0
	actorCategory  uint = 1 << 1
)

// actorGroup 同组形状互不碰撞，角色之间只做逻辑判定
const actorGroup uint = 1

const (
	groundProbe    = 2  // 脚底探测距离
	aheadTolerance = 60 // 前方地面查询半径
)

var groundOnly = cp.ShapeFilter{Categories: ^uint(0), Mask: groundCategory}

// World 物理世界，实现 strategy.Terrain
type World struct {
	space  *cp.Space
	level  Level
	bodies map[*entity.Entity]*Body
}

func NewWorld(level Level, gravity float64) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	w := &World{space: space, level: level, bodies: make(map[*entity.Entity]*Body)}
	for _, r := range level.Ground {
		bb := cp.BB{L: r.X - r.W/2, B: r.Y - r.H/2, R: r.X + r.W/2, T: r.Y + r.H/2}
		shape := cp.NewBox2(space.StaticBody, bb, 0)
		shape.SetFriction(1)
		shape.SetElasticity(0)
		shape.SetFilter(cp.ShapeFilter{Categories: groundCategory, Mask: ^uint(0)})
		space.AddShape(shape)
	}
	return w
}

func (w *World) Level() Level { return w.level }

// Body 角色刚体，实现 entity.Body
type Body struct {
	world  *World
	body   *cp.Body
	shape  *cp.Shape
	halfW  float64
	halfH  float64
	entity *entity.Entity
}

// Attach 为实体创建不旋转的盒形刚体并挂到 e.Body
func (w *World) Attach(e *entity.Entity, width, height float64) *Body {
	w.Detach(e)
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: e.X, Y: e.Y})
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(cp.ShapeFilter{Group: actorGroup, Categories: actorCategory, Mask: ^uint(0)})
	w.space.AddBody(body)
	w.space.AddShape(shape)

	b := &Body{world: w, body: body, shape: shape, halfW: width / 2, halfH: height / 2, entity: e}
	w.bodies[e] = b
	e.Body = b
	return b
}

// Detach 移除实体的刚体；实体未挂载时为 no-op
func (w *World) Detach(e *entity.Entity) {
	b, ok := w.bodies[e]
	if !ok {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.bodies, e)
	if e.Body == b {
		e.Body = nil
	}
}

func (w *World) Len() int { return len(w.bodies) }

// Step 推进物理并把位置与竖直速度写回实体；已销毁的实体在此摘除
func (w *World) Step(dt float64) {
	for e := range w.bodies {
		if e.Removed() {
			w.Detach(e)
		}
	}
	w.space.Step(dt)
	for e, b := range w.bodies {
		pos := b.body.Position()
		vel := b.body.Velocity()
		e.X, e.Y = pos.X, pos.Y
		e.VY = vel.Y
	}
}

// Teleport 直接设置位置并清零速度（重生）
func (w *World) Teleport(e *entity.Entity, x, y float64) {
	e.X, e.Y = x, y
	if b, ok := w.bodies[e]; ok {
		b.body.SetPosition(cp.Vector{X: x, Y: y})
		b.body.SetVelocity(0, 0)
	}
}

// IsGroundAhead 以实体当前高度向 direction 方向前探 distance，查询附近是否有地面
func (w *World) IsGroundAhead(from *entity.Entity, direction int, distance float64) bool {
	if from == nil {
		return false
	}
	dx := distance
	if direction < 0 {
		dx = -distance
	}
	info := w.space.PointQueryNearest(cp.Vector{X: from.X + dx, Y: from.Y}, aheadTolerance, groundOnly)
	return info != nil && info.Shape != nil
}

// AtGoal 实体中心是否进入终点区域
func (w *World) AtGoal(e *entity.Entity) bool {
	return w.level.Goal.W > 0 && w.level.Goal.Contains(e.X, e.Y)
}

// TouchingGround 在脚底两侧与中点探测地面
func (b *Body) TouchingGround() bool {
	pos := b.body.Position()
	y := pos.Y + b.halfH + 1
	for _, x := range [...]float64{pos.X - b.halfW*0.9, pos.X, pos.X + b.halfW*0.9} {
		info := b.world.space.PointQueryNearest(cp.Vector{X: x, Y: y}, groundProbe, groundOnly)
		if info != nil && info.Shape != nil {
			return true
		}
	}
	return false
}

func (b *Body) SetVelocity(x, y float64) {
	b.body.SetVelocity(x, y)
}
