package telemetry

import "github.com/pthm-cable/antcolony/colony"

// FieldTotals is the world state sampled when a generation ends.
type FieldTotals struct {
	TotalFood     int // deliveries since the run started
	FoodRemaining int
	Sources       int
	Pheromones    int
}

// Collector accumulates events during a generation and produces GenerationStats.
type Collector struct {
	genStartTick int64

	deliveries      int
	pickups         int
	stalePickups    int
	sourcesDepleted int
	depositsLaid    int
	depositsPruned  int
}

// NewCollector creates a collector whose first generation starts at startTick.
func NewCollector(startTick int64) *Collector {
	return &Collector{genStartTick: startTick}
}

// RecordPickup records a successful pickup. depleted is true when the pickup
// emptied its source.
func (c *Collector) RecordPickup(depleted bool) {
	c.pickups++
	if depleted {
		c.sourcesDepleted++
	}
}

// RecordStalePickup records a pickup rejected because its source was already gone.
func (c *Collector) RecordStalePickup() {
	c.stalePickups++
}

// RecordDelivery records one delivery and the deposits it laid.
func (c *Collector) RecordDelivery(deposits int) {
	c.deliveries++
	c.depositsLaid += deposits
}

// RecordPruned records deposits removed by decay.
func (c *Collector) RecordPruned(n int) {
	c.depositsPruned += n
}

// Deliveries returns the deliveries recorded in the current generation.
func (c *Collector) Deliveries() int {
	return c.deliveries
}

// Flush produces the stats for a finished generation and resets the counters.
func (c *Collector) Flush(tick int64, res colony.GenerationResult, totals FieldTotals) GenerationStats {
	s := GenerationStats{
		Generation: res.Generation,
		Tick:       tick,
		Ticks:      tick - c.genStartTick,

		Deliveries:      c.deliveries,
		Pickups:         c.pickups,
		StalePickups:    c.stalePickups,
		SourcesDepleted: c.sourcesDepleted,
		DepositsLaid:    c.depositsLaid,
		DepositsPruned:  c.depositsPruned,

		TotalFood:     totals.TotalFood,
		FoodRemaining: totals.FoodRemaining,
		Sources:       totals.Sources,
		Pheromones:    totals.Pheromones,

		EliteCount: res.EliteCount,
		Children:   res.Children,
		Mutations:  res.Mutations,
	}
	s.fillRanked(res.Ranked)

	*c = Collector{genStartTick: tick}
	return s
}
