package main

import (
	"os"
	"testing"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
)

func TestRunHeadlessReturnsStartupError(t *testing.T) {
	cfg := config.Defaults()
	cfg.Genetics.DeliveryThreshold = 0

	// A startup failure is returned to the caller instead of exiting the process
	if err := runHeadless(game.Options{Config: cfg, Seed: 1}, 1, ""); err == nil {
		t.Fatal("expected startup error")
	}
}

func TestRunHeadlessStopsAtMaxTicks(t *testing.T) {
	cfg := config.Defaults()
	path := t.TempDir() + "/final.json"

	if err := runHeadless(game.Options{Config: cfg, Seed: 1}, 3, path); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("final snapshot not written: %v", err)
	}
}
