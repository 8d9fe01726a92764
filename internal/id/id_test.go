package id

import (
	"regexp"
	"strings"
	"sync"
	"testing"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestUUID_Format(t *testing.T) {
	if id := UUID(); !uuidV4.MatchString(id) {
		t.Errorf("UUID() = %q, does not match UUID v4 format", id)
	}
}

func TestRequest(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"empty generates", "", false},
		{"client id kept", "req-123", true},
		{"uuid kept", "0b6a5a0e-2f4e-4d8b-9c1e-8f1f3f0a9b27", true},
		{"max length kept", strings.Repeat("a", 128), true},
		{"spaces rejected", "req 123", false},
		{"control chars rejected", "req\n123", false},
		{"non-ascii rejected", "réq", false},
		{"too long rejected", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Request(tt.incoming)
			if tt.keep && got != tt.incoming {
				t.Errorf("Request(%q) = %q, want incoming id kept", tt.incoming, got)
			}
			if !tt.keep && !uuidV4.MatchString(got) {
				t.Errorf("Request(%q) = %q, want generated UUID", tt.incoming, got)
			}
		})
	}
}

func TestRequest_ConcurrentIDsUnique(t *testing.T) {
	const workers, perWorker = 20, 100

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				id := Request("")
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate request id %s", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
