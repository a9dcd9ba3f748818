// Package components defines ECS components for the simulation fields.
package components

// Position is a point in the arena.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pheromone marks an entity as a pheromone deposit.
type Pheromone struct {
	Intensity float64
	Seq       uint64 // insertion order, breaks attractiveness ties
}

// FoodSource marks an entity as a food source.
type FoodSource struct {
	Stock    int
	Capacity int
	Seq      uint64 // insertion order, breaks distance ties
}
