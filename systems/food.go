package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
)

// Source is a read-only copy of one food source.
type Source struct {
	Entity   ecs.Entity
	Pos      components.Position
	Stock    int
	Capacity int
	Seq      uint64
}

// FoodField owns the food sources. A source is removed the moment its stock
// reaches zero, so every source a query returns has stock left.
type FoodField struct {
	world    *ecs.World
	mapper   *ecs.Map2[components.Position, components.FoodSource]
	stockMap *ecs.Map1[components.FoodSource]
	filter   *ecs.Filter2[components.Position, components.FoodSource]

	nextSeq uint64
	view    []Source
}

// NewFoodField creates an empty food field.
func NewFoodField() *FoodField {
	world := ecs.NewWorld()
	return &FoodField{
		world:    world,
		mapper:   ecs.NewMap2[components.Position, components.FoodSource](world),
		stockMap: ecs.NewMap1[components.FoodSource](world),
		filter:   ecs.NewFilter2[components.Position, components.FoodSource](world),
		view:     make([]Source, 0, 64),
	}
}

// Scatter places cfg.Sources sources with full stock at random integer positions
// at least cfg.Margin away from the arena edges.
func (f *FoodField) Scatter(rng *rand.Rand, width, height float64, cfg config.FoodConfig) {
	lowX, highX := int(cfg.Margin), int(width-cfg.Margin)
	lowY, highY := int(cfg.Margin), int(height-cfg.Margin)

	for i := 0; i < cfg.Sources; i++ {
		pos := components.Position{
			X: float64(lowX + rng.Intn(highX-lowX+1)),
			Y: float64(lowY + rng.Intn(highY-lowY+1)),
		}
		f.Add(pos, cfg.Capacity, cfg.Capacity)
	}
}

// Add places a source with the given stock. Sources with no stock are ignored.
func (f *FoodField) Add(pos components.Position, stock, capacity int) {
	if stock <= 0 {
		return
	}
	src := components.FoodSource{Stock: stock, Capacity: capacity, Seq: f.nextSeq}
	f.nextSeq++

	e := f.mapper.NewEntity(&pos, &src)
	f.view = append(f.view, Source{Entity: e, Pos: pos, Stock: stock, Capacity: capacity, Seq: src.Seq})
}

// NearestTo returns the source closest to pos, or false if the field is empty.
// Equal distances go to the earliest source.
func (f *FoodField) NearestTo(pos components.Position) (Source, bool) {
	best := -1
	bestSq := 0.0
	for i := range f.view {
		d := DistanceSq(pos, f.view[i].Pos)
		if best < 0 || d < bestSq {
			best = i
			bestSq = d
		}
	}
	if best < 0 {
		return Source{}, false
	}
	return f.view[best], true
}

// Contains reports whether src is still in the field.
func (f *FoodField) Contains(src Source) bool {
	return f.world.Alive(src.Entity)
}

// WithdrawOne takes one unit from src. When the stock reaches zero the source is
// removed and false is returned. Withdrawing from a removed source returns false.
func (f *FoodField) WithdrawOne(src Source) bool {
	if !f.Contains(src) {
		return false
	}
	stock := f.stockMap.Get(src.Entity)
	stock.Stock--

	idx := f.indexOf(src.Entity)
	if stock.Stock > 0 {
		if idx >= 0 {
			f.view[idx].Stock = stock.Stock
		}
		return true
	}

	f.world.RemoveEntity(src.Entity)
	if idx >= 0 {
		f.view = append(f.view[:idx], f.view[idx+1:]...)
	}
	return false
}

// Len returns the number of sources with stock left.
func (f *FoodField) Len() int {
	return len(f.view)
}

// TotalStock returns the stock left across all sources.
func (f *FoodField) TotalStock() int {
	total := 0
	query := f.filter.Query()
	for query.Next() {
		_, src := query.Get()
		total += src.Stock
	}
	return total
}

// Sources returns a copy of all sources in insertion order.
func (f *FoodField) Sources() []Source {
	out := make([]Source, len(f.view))
	copy(out, f.view)
	return out
}

// Reset removes every source.
func (f *FoodField) Reset() {
	for _, s := range f.view {
		f.world.RemoveEntity(s.Entity)
	}
	f.view = f.view[:0]
}

func (f *FoodField) indexOf(e ecs.Entity) int {
	for i := range f.view {
		if f.view[i].Entity == e {
			return i
		}
	}
	return -1
}
