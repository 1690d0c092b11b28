package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiredBoundaryIsExclusive(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	tests := []struct {
		name    string
		elapsed time.Duration
		expired bool
	}{
		{"just issued", 0, false},
		{"inside window", 9*time.Minute + 59*time.Second, false},
		{"exactly at the boundary", 10 * time.Minute, false},
		{"just past the boundary", 10*time.Minute + 1*time.Second, true},
		{"long past", time.Hour, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Expired(issued, issued.Add(tc.elapsed), ttl)
			assert.Equal(t, tc.expired, got)
		})
	}
}
