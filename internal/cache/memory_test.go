package cache

import (
	"errors"
	"fmt"
	"testing"
)

func TestMemory_PutGet(t *testing.T) {
	c := NewMemory(1024)

	if err := c.Put("a", []byte("hello")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("Expected key to be found")
	}
	if string(got) != "hello" {
		t.Errorf("Expected %q, got %q", "hello", got)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", s.Hits, s.Misses)
	}
	if s.Size != 5 || s.Items != 1 {
		t.Errorf("Expected size 5 with 1 item, got %d/%d", s.Size, s.Items)
	}
}

func TestMemory_LRUEviction(t *testing.T) {
	c := NewMemory(100)
	for i := 0; i < 5; i++ {
		if err := c.Put(fmt.Sprintf("key-%d", i), make([]byte, 20)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// key-0 becomes most recently used, key-1 is now the oldest.
	c.Get("key-0")

	if err := c.Put("key-new", make([]byte, 30)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !c.Contains("key-0") {
		t.Error("Expected recently used key-0 to survive eviction")
	}
	if c.Contains("key-1") || c.Contains("key-2") {
		t.Error("Expected key-1 and key-2 to be evicted")
	}
	if s := c.Stats(); s.Size > 100 {
		t.Errorf("Expected size within capacity, got %d", s.Size)
	}
	if s := c.Stats(); s.Evictions != 2 {
		t.Errorf("Expected 2 evictions, got %d", s.Evictions)
	}
}

func TestMemory_UpdateExisting(t *testing.T) {
	c := NewMemory(100)
	_ = c.Put("a", make([]byte, 10))
	_ = c.Put("a", make([]byte, 40))
	if s := c.Stats(); s.Size != 40 || s.Items != 1 {
		t.Errorf("Expected size 40 with 1 item, got %d/%d", s.Size, s.Items)
	}
}

func TestMemory_ItemTooLarge(t *testing.T) {
	c := NewMemory(10)
	if err := c.Put("big", make([]byte, 11)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Expected ErrItemTooLarge, got %v", err)
	}
}

func TestMemory_DeleteClear(t *testing.T) {
	c := NewMemory(100)
	_ = c.Put("a", []byte("1"))
	_ = c.Put("b", []byte("2"))

	c.Delete("a")
	if c.Contains("a") {
		t.Error("Expected a to be deleted")
	}
	_ = c.Clear()
	if s := c.Stats(); s.Items != 0 || s.Size != 0 {
		t.Errorf("Expected empty cache, got %d items / %d bytes", s.Items, s.Size)
	}
}

func TestKey(t *testing.T) {
	a := Key("Nomor antrian 1, menuju Loket 1", "id", 0.9)
	if a != Key("Nomor antrian 1, menuju Loket 1", "id", 0.9) {
		t.Error("Expected identical inputs to produce identical keys")
	}
	if len(a) != 32 {
		t.Errorf("Expected 32 hex characters, got %d", len(a))
	}
	for _, other := range []string{
		Key("Nomor antrian 2, menuju Loket 1", "id", 0.9),
		Key("Nomor antrian 1, menuju Loket 1", "en", 0.9),
		Key("Nomor antrian 1, menuju Loket 1", "id", 1.0),
	} {
		if other == a {
			t.Errorf("Expected a different key, got %s", other)
		}
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{Capacity: 2048, Size: 1024, Items: 3, Hits: 1, Misses: 1}
	want := "3 items, 1.0 KiB of 2.0 KiB, 50% hits"
	if s.String() != want {
		t.Errorf("Expected %q, got %q", want, s.String())
	}
}
