package telemetry

// PhaseInfo describes one tick phase for display.
type PhaseInfo struct {
	ID          string // key used by PerfCollector
	Name        string // display name
	Description string
	Category    string // "agents", "fields", "evolution" or "output"
}

// PhaseRegistry holds the tick phases in pipeline order, so the HUD, the
// perf log and the CSV stay in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with every colony tick phase.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{byID: make(map[string]PhaseInfo)}
	reg.Register(PhaseInfo{ID: PhaseJitter, Name: "Jitter", Description: "Draws exploration vectors in population order", Category: "agents"})
	reg.Register(PhaseInfo{ID: PhaseStep, Name: "Step", Description: "Moves agents against the frozen fields", Category: "agents"})
	reg.Register(PhaseInfo{ID: PhaseApply, Name: "Apply", Description: "Applies pickups, deliveries and deposits", Category: "fields"})
	reg.Register(PhaseInfo{ID: PhaseEvolve, Name: "Evolve", Description: "Replaces the forager generation", Category: "evolution"})
	reg.Register(PhaseInfo{ID: PhaseDecay, Name: "Decay", Description: "Decays and prunes pheromones", Category: "fields"})
	reg.Register(PhaseInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Writes generation output", Category: "output"})
	return reg
}

// Register appends a phase. Re-registering an ID replaces its info in place.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	if _, ok := r.byID[info.ID]; ok {
		for i := range r.phases {
			if r.phases[i].ID == info.ID {
				r.phases[i] = info
			}
		}
	} else {
		r.phases = append(r.phases, info)
	}
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// Name returns the display name for a phase ID, or the ID itself.
func (r *PhaseRegistry) Name(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns every phase in pipeline order.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// ByCategory returns the phases in one category.
func (r *PhaseRegistry) ByCategory(category string) []PhaseInfo {
	var result []PhaseInfo
	for _, info := range r.phases {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns every phase ID in pipeline order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
