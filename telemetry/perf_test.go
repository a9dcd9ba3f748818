package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorTracksPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseApply)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Fatal("expected positive average tick duration")
	}
	for _, phase := range []string{PhaseStep, PhaseApply} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %s not tracked", phase)
		}
	}
	if stats.PhasePct[PhaseApply] <= stats.PhasePct[PhaseStep] {
		t.Errorf("apply %v%% should exceed step %v%%", stats.PhasePct[PhaseApply], stats.PhasePct[PhaseStep])
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	for i := 0; i < 12; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDecay)
		pc.EndTick()
	}
	if pc.sampleCount != 5 {
		t.Errorf("sampleCount = %d, want 5", pc.sampleCount)
	}
	if stats := pc.Stats(); stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollectorEmptyAndNil(t *testing.T) {
	for name, pc := range map[string]*PerfCollector{
		"empty": NewPerfCollector(10),
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			pc.StartTick()
			pc.EndTick()
			pc.StartTick()
			stats := pc.Stats()
			if stats.PhaseAvg == nil || stats.PhasePct == nil {
				t.Error("expected non-nil maps")
			}
		})
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("frame duration = %v, want >= 15ms", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want in (0, 70]", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseStep: 60, PhaseDecay: 10},
	}
	row := s.ToCSV(300)
	if row.Tick != 300 || row.AvgTickUS != 1500 || row.StepPct != 60 || row.DecayPct != 10 || row.ApplyPct != 0 {
		t.Errorf("unexpected row %+v", row)
	}
}
