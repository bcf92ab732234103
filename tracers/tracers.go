// Package tracers moves passive marker particles through the velocity field.
// Tracers are entities in an ark ECS world; they never feed back into the grid.
package tracers

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/vmath"
)

// Position is a tracer's location in grid units.
type Position struct {
	X, Y float64
}

// Age counts the steps a tracer has lived. It respawns at Lifespan.
type Age struct {
	Steps    int
	Lifespan int
}

// System owns the tracer world.
type System struct {
	world  *ecs.World
	mapper *ecs.Map2[Position, Age]
	filter *ecs.Filter2[Position, Age]

	rng      *rand.Rand
	domain   float64
	lifespan int
	count    int
}

// NewSystem creates an empty tracer system over [0, domain]².
func NewSystem(domain float64, lifespan int, seed int64) *System {
	world := ecs.NewWorld()
	if lifespan < 1 {
		lifespan = 1
	}
	return &System{
		world:    world,
		mapper:   ecs.NewMap2[Position, Age](world),
		filter:   ecs.NewFilter2[Position, Age](world),
		rng:      rand.New(rand.NewSource(seed)),
		domain:   domain,
		lifespan: lifespan,
	}
}

// Spawn adds n tracers at random positions. Initial ages are staggered so
// respawns spread out over time.
func (s *System) Spawn(n int) {
	for range n {
		pos := s.randomPosition()
		age := Age{Steps: s.rng.Intn(s.lifespan), Lifespan: s.lifespan}
		s.mapper.NewEntity(&pos, &age)
		s.count++
	}
}

// Resize spawns or removes tracers until there are n.
func (s *System) Resize(n int) {
	if n > s.count {
		s.Spawn(n - s.count)
		return
	}

	var remove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		if len(remove) < s.count-n {
			remove = append(remove, query.Entity())
		}
	}
	for _, e := range remove {
		s.world.RemoveEntity(e)
		s.count--
	}
}

// Advance moves every tracer one forward-Euler step through g's velocity,
// clamps it into the domain, and respawns tracers that reach their lifespan.
func (s *System) Advance(g *grid.StaggeredGrid, dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, age := query.Get()

		age.Steps++
		if age.Steps >= age.Lifespan {
			*pos = s.randomPosition()
			age.Steps = 0
			continue
		}

		p := vmath.Vec(pos.X, pos.Y)
		p = p.Add(g.SampleVelocity(p).Scale(dt)).Clamp(0, s.domain)
		pos.X, pos.Y = p.X, p.Y
	}
}

// Each calls fn with every tracer's position and age fraction in [0, 1).
func (s *System) Each(fn func(p vmath.Vector2, life float64)) {
	query := s.filter.Query()
	for query.Next() {
		pos, age := query.Get()
		fn(vmath.Vec(pos.X, pos.Y), float64(age.Steps)/float64(age.Lifespan))
	}
}

// Count returns the number of live tracers.
func (s *System) Count() int {
	return s.count
}

func (s *System) randomPosition() Position {
	return Position{X: s.rng.Float64() * s.domain, Y: s.rng.Float64() * s.domain}
}
