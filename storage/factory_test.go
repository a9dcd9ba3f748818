package storage

import (
	"testing"

	"github.com/pthm-cable/antcolony/telemetry"
)

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		dsn     string
		wantErr bool
	}{
		{"default", "", "", false},
		{"memory", "memory", "", false},
		{"postgres without dsn", "postgres", "", true},
		{"postgres", "postgres", "postgres://localhost/antcolony", false},
		{"unknown", "redis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(tt.kind, tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStore(%q) err = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if err == nil && s == nil {
				t.Fatal("nil store without error")
			}
		})
	}
}

func TestCloseIfSupported(t *testing.T) {
	if err := CloseIfSupported(NewMemoryStore()); err != nil {
		t.Errorf("memory store: %v", err)
	}
	if err := CloseIfSupported(NewPostgresStore("postgres://unused")); err != nil {
		t.Errorf("unopened postgres store: %v", err)
	}
}

func TestGenerationCodec(t *testing.T) {
	in := telemetry.GenerationStats{Generation: 4, Tick: 900, Deliveries: 20, BestFitness: 0.75}
	in.Best.Speed = 3.5

	data, err := EncodeGeneration(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeGeneration(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Generation != 4 || out.Tick != 900 || out.BestFitness != 0.75 || out.Best.Speed != 3.5 {
		t.Errorf("decoded = %+v", out)
	}

	if _, err := DecodeGeneration([]byte("{")); err == nil {
		t.Error("expected error for truncated payload")
	}
}
