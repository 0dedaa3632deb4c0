package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BatchSize != 3 {
		t.Errorf("BatchSize = %d, want 3", cfg.BatchSize)
	}
	if cfg.LearningRate != 0 {
		t.Errorf("LearningRate = %v, want 0 (unset)", cfg.LearningRate)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BUDDY_DB", "/tmp/buddy-test/buddy.db")
	t.Setenv("BUDDY_LEARNING_RATE", "0.5")
	t.Setenv("BUDDY_BATCH_SIZE", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath != "/tmp/buddy-test/buddy.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LearningRate != 0.5 {
		t.Errorf("LearningRate = %v, want 0.5", cfg.LearningRate)
	}
	if cfg.BatchSize != 5 {
		t.Errorf("BatchSize = %d, want 5", cfg.BatchSize)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"rate above one", "BUDDY_LEARNING_RATE", "1.5"},
		{"negative rate", "BUDDY_LEARNING_RATE", "-0.1"},
		{"zero batch", "BUDDY_BATCH_SIZE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s succeeded, want error", tt.key, tt.value)
			}
		})
	}
}
