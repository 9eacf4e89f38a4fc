package cache

import (
	"errors"

	"github.com/charmbracelet/log"
)

// Tiered checks memory first and falls back to disk, promoting disk hits
// into memory. Disk may be nil.
type Tiered struct {
	mem  *Memory
	disk *Disk
}

// NewTiered combines a memory cache with an optional disk cache.
func NewTiered(mem *Memory, disk *Disk) *Tiered {
	return &Tiered{mem: mem, disk: disk}
}

// Get implements Store.
func (t *Tiered) Get(key string) ([]byte, bool) {
	if audio, ok := t.mem.Get(key); ok {
		return audio, true
	}
	if t.disk == nil {
		return nil, false
	}
	audio, ok := t.disk.Get(key)
	if !ok {
		return nil, false
	}
	if err := t.mem.Put(key, audio); err != nil && !errors.Is(err, ErrItemTooLarge) {
		log.Debug("Cache promotion failed", "key", key, "err", err)
	}
	return audio, true
}

// Put implements Store. A clip too large for memory still goes to disk.
func (t *Tiered) Put(key string, audio []byte) error {
	memErr := t.mem.Put(key, audio)
	if t.disk == nil {
		return memErr
	}
	if err := t.disk.Put(key, audio); err != nil {
		return err
	}
	if memErr != nil && !errors.Is(memErr, ErrItemTooLarge) {
		return memErr
	}
	return nil
}

// Delete implements Store.
func (t *Tiered) Delete(key string) {
	t.mem.Delete(key)
	if t.disk != nil {
		t.disk.Delete(key)
	}
}

// Clear implements Store.
func (t *Tiered) Clear() error {
	err := t.mem.Clear()
	if t.disk != nil {
		err = errors.Join(err, t.disk.Clear())
	}
	return err
}

// Stats reports the memory tier merged with the disk tier: hits on either
// tier count, a miss is counted only when both tiers missed.
func (t *Tiered) Stats() Stats {
	m := t.mem.Stats()
	if t.disk == nil {
		return m
	}
	d := t.disk.Stats()
	return Stats{
		Capacity:  m.Capacity + d.Capacity,
		Size:      m.Size + d.Size,
		Items:     d.Items,
		Hits:      m.Hits + d.Hits,
		Misses:    d.Misses,
		Evictions: m.Evictions + d.Evictions,
	}
}

// Close closes the disk tier.
func (t *Tiered) Close() error {
	if t.disk == nil {
		return nil
	}
	return t.disk.Close()
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Disk)(nil)
	_ Store = (*Tiered)(nil)
)
