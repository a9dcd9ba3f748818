package storage

import (
	"encoding/json"
	"fmt"

	"github.com/pthm-cable/antcolony/telemetry"
)

// EncodeGeneration serializes generation stats for a payload column.
func EncodeGeneration(stats telemetry.GenerationStats) ([]byte, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("encode generation %d: %w", stats.Generation, err)
	}
	return data, nil
}

// DecodeGeneration parses a payload written by EncodeGeneration.
func DecodeGeneration(data []byte) (telemetry.GenerationStats, error) {
	var stats telemetry.GenerationStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return telemetry.GenerationStats{}, fmt.Errorf("decode generation: %w", err)
	}
	return stats, nil
}
