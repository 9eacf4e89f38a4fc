package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const diskExt = ".pcm.zst"

// Disk stores zstd-compressed clips as one file per key. The index is
// rebuilt from the directory on open, so clips survive restarts.
type Disk struct {
	dir      string
	capacity int64

	enc *zstd.Encoder
	dec *zstd.Decoder

	mu    sync.Mutex
	index map[string]diskEntry
	size  int64
	stats Stats
}

type diskEntry struct {
	size     int64 // compressed, on disk
	lastUsed time.Time
}

// OpenDisk opens (creating if needed) a disk cache in dir holding at most
// capacity compressed bytes.
func OpenDisk(dir string, capacity int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create cache directory: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("unable to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create zstd decoder: %w", err)
	}

	d := &Disk{
		dir:      dir,
		capacity: capacity,
		enc:      enc,
		dec:      dec,
		index:    make(map[string]diskEntry),
	}
	if err := d.scan(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Disk) scan() error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("unable to read cache directory: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, diskExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		key := strings.TrimSuffix(name, diskExt)
		d.index[key] = diskEntry{size: info.Size(), lastUsed: info.ModTime()}
		d.size += info.Size()
	}
	log.Debug("Opened audio cache", "dir", d.dir, "items", len(d.index), "size", d.size)
	return nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key+diskExt)
}

// Get reads and decompresses the clip for key.
func (d *Disk) Get(key string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.index[key]
	if !ok {
		d.stats.Misses++
		return nil, false
	}

	raw, err := os.ReadFile(d.path(key))
	if err == nil {
		var audio []byte
		audio, err = d.dec.DecodeAll(raw, nil)
		if err == nil {
			e.lastUsed = time.Now()
			d.index[key] = e
			_ = os.Chtimes(d.path(key), e.lastUsed, e.lastUsed)
			d.stats.Hits++
			return audio, true
		}
		err = fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	log.Warn("Dropping unreadable cache entry", "key", key, "err", err)
	d.removeLocked(key)
	d.stats.Misses++
	return nil, false
}

// Put compresses audio and writes it under key.
func (d *Disk) Put(key string, audio []byte) error {
	data := d.enc.EncodeAll(audio, nil)
	n := int64(len(data))

	d.mu.Lock()
	defer d.mu.Unlock()

	if n > d.capacity {
		return ErrItemTooLarge
	}
	if _, ok := d.index[key]; ok {
		d.removeLocked(key)
	}
	for d.size+n > d.capacity && len(d.index) > 0 {
		d.evictLocked()
	}

	if err := writeFileAtomic(d.path(key), data); err != nil {
		return fmt.Errorf("unable to write cache file: %w", err)
	}
	d.index[key] = diskEntry{size: n, lastUsed: time.Now()}
	d.size += n
	return nil
}

// Delete removes key if present.
func (d *Disk) Delete(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeLocked(key)
}

// Clear removes every cached file.
func (d *Disk) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for key := range d.index {
		if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	d.index = make(map[string]diskEntry)
	d.size = 0
	return errors.Join(errs...)
}

// Stats returns a snapshot of the cache counters.
func (d *Disk) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stats
	s.Capacity = d.capacity
	s.Size = d.size
	s.Items = len(d.index)
	return s
}

// Close releases the codec resources.
func (d *Disk) Close() error {
	d.dec.Close()
	return d.enc.Close()
}

// Keys returns the cached keys, least recently used first.
func (d *Disk) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lruKeysLocked()
}

func (d *Disk) lruKeysLocked() []string {
	keys := make([]string, 0, len(d.index))
	for k := range d.index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return d.index[keys[i]].lastUsed.Before(d.index[keys[j]].lastUsed)
	})
	return keys
}

func (d *Disk) evictLocked() {
	keys := d.lruKeysLocked()
	if len(keys) == 0 {
		return
	}
	d.removeLocked(keys[0])
	d.stats.Evictions++
}

func (d *Disk) removeLocked(key string) {
	e, ok := d.index[key]
	if !ok {
		return
	}
	_ = os.Remove(d.path(key))
	delete(d.index, key)
	d.size -= e.size
}

// writeFileAtomic writes to a temp file next to path and renames it.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
