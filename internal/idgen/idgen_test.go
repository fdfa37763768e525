package idgen

import "testing"

func TestUUIDUnique(t *testing.T) {
	g := UUID{}
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.New()
		if id == "" {
			t.Fatal("empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
