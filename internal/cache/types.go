package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

var (
	// ErrItemTooLarge is returned when a clip exceeds the cache capacity.
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCorrupted is returned when a cached clip can't be decoded.
	ErrCorrupted = errors.New("cache data corrupted")
)

// Store is a byte-bounded audio cache.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, audio []byte) error
	Delete(key string)
	Clear() error
	Stats() Stats
}

// Stats holds cache counters.
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / (hits + misses), or 0 with no lookups.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("%d items, %s of %s, %.0f%% hits",
		s.Items,
		humanize.IBytes(uint64(max(s.Size, 0))),
		humanize.IBytes(uint64(max(s.Capacity, 0))),
		s.HitRate()*100,
	)
}

// Key derives a cache key from everything that changes the rendered audio.
func Key(text, voice string, speed float64) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(voice))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(speed, 'f', 2, 64)))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
