package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	runewidth "github.com/mattn/go-runewidth"
)

func TestDisplayBeforeFirstCall(t *testing.T) {
	m, _ := newTestModel(t, Config{Mode: ModeDisplay}, 120, 30)
	v := m.View()

	for _, want := range []string{
		"LOGO 1", "LOGO 2", "AREA VIDEO",
		"INFORMASI ANTRIAN", "3 Nomor Terakhir",
		"--", "Ke Loket -",
		"© Sistem Antrian Modular", "Sistem Antrian Siap",
	} {
		if !strings.Contains(v, want) {
			t.Errorf("Expected %q in display view", want)
		}
	}
}

func TestDisplayFollowsCalls(t *testing.T) {
	m, seq := newTestModel(t, Config{Mode: ModeDisplay}, 120, 30)
	for _, c := range []string{"Loket 1", "Loket 3", "Loket 4", "Loket 4"} {
		seq.Advance(c)
	}

	v := m.View()
	for _, want := range []string{"Nomor 1 Loket 1", "Nomor 2 Loket 3", "Nomor 3 Loket 4", "Ke Loket 4"} {
		if !strings.Contains(v, want) {
			t.Errorf("Expected %q in display view", want)
		}
	}
	if strings.Contains(v, "Nomor 4 Loket 4") {
		t.Error("Expected the current call to stay out of the history rows")
	}
	if m.display.numberText() != "4" {
		t.Errorf("Expected current number 4, got %s", m.display.numberText())
	}
}

func TestDisplayHistoryPlaceholders(t *testing.T) {
	m, seq := newTestModel(t, Config{Mode: ModeDisplay}, 120, 30)
	seq.Advance("Loket 1")
	seq.Advance("Loket 2")

	if got := m.display.historyText(0); got != "Nomor 1 Loket 1" {
		t.Errorf("Expected first row 'Nomor 1 Loket 1', got %q", got)
	}
	for i := 1; i < historyRows; i++ {
		if got := m.display.historyText(i); got != "-" {
			t.Errorf("Expected row %d to be '-', got %q", i, got)
		}
	}
}

func TestDisplaySyncAfterReset(t *testing.T) {
	m, seq := newTestModel(t, Config{Mode: ModeDisplay}, 120, 30)
	seq.Advance("Loket 1")
	seq.Reset()

	// a reset is not announced
	if !m.display.hasCurrent {
		t.Fatal("Expected display to keep the last call until synced")
	}

	m, _ = update(m, queueResetMsg{})
	if m.display.hasCurrent || m.display.numberText() != "--" {
		t.Error("Expected display to clear after reset")
	}
}

func TestDisplayBigDigits(t *testing.T) {
	m, seq := newTestModel(t, Config{Mode: ModeDisplay}, 120, 48)
	seq.Advance("Loket 1")
	if !strings.Contains(m.View(), "███") {
		t.Error("Expected block digits on a tall terminal")
	}

	m, seq = newTestModel(t, Config{Mode: ModeDisplay, NoBigDigits: true}, 120, 48)
	seq.Advance("Loket 1")
	if strings.Contains(m.View(), "█") {
		t.Error("Expected plain digits when big digits are disabled")
	}
}

func TestDisplayCompactView(t *testing.T) {
	m, seq := newTestModel(t, Config{Mode: ModeDisplay, Display: DisplayConfig{Kiosk: true}}, 30, 8)
	seq.Advance("Loket 2")
	v := m.View()
	if !strings.Contains(v, "1") || !strings.Contains(v, "Ke Loket 2") {
		t.Errorf("Expected compact call line, got %q", v)
	}
}

func TestDisplayLogoLabels(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "brand.png")
	if err := os.WriteFile(logo, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestModel(t, Config{Mode: ModeDisplay, Logos: []string{logo, filepath.Join(dir, "missing.png")}}, 120, 30)
	if got := m.display.logoLabel(0); got != "BRAND" {
		t.Errorf("Expected 'BRAND', got %q", got)
	}
	if got := m.display.logoLabel(1); got != "LOGO 2" {
		t.Errorf("Expected placeholder for a missing file, got %q", got)
	}

	m, _ = newTestModel(t, Config{Mode: ModeDisplay, Logos: []string{"BANK SAMPAH"}}, 120, 30)
	if got := m.display.logoLabel(0); got != "BANK SAMPAH" {
		t.Errorf("Expected text label, got %q", got)
	}
}

func TestMarqueeRotates(t *testing.T) {
	mq := newMarquee("ab", 70*time.Millisecond)
	start := mq.rotated()
	if start != "   ab   " {
		t.Fatalf("Expected padded text, got %q", start)
	}

	mq.step()
	if got := mq.rotated(); got != "  ab    " {
		t.Errorf("Expected one rune rotation, got %q", got)
	}
	for i := 1; i < len([]rune(start)); i++ {
		mq.step()
	}
	if got := mq.rotated(); got != start {
		t.Errorf("Expected wrap around to %q, got %q", start, got)
	}
}

func TestMarqueeView(t *testing.T) {
	mq := newMarquee("Selamat datang", 70*time.Millisecond)
	for _, w := range []int{4, 20, 80} {
		if got := runewidth.StringWidth(mq.view(w)); got != w {
			t.Errorf("Expected view width %d, got %d", w, got)
		}
	}
	if mq.view(0) != "" {
		t.Error("Expected empty view for zero width")
	}
}

func TestMarqueeStaleTick(t *testing.T) {
	m, _ := newTestModel(t, Config{Mode: ModeDisplay}, 120, 30)
	old := m.display.marquee.id

	m, _ = update(m, marqueeFileMsg{text: "Promo hari ini"})
	if !strings.Contains(m.display.marquee.rotated(), "Promo hari ini") {
		t.Fatal("Expected marquee text to change")
	}

	m, cmd := update(m, marqueeTickMsg{id: old})
	if cmd != nil || m.display.marquee.offset != 0 {
		t.Error("Expected a tick for the old text to be dropped")
	}
	m, cmd = update(m, marqueeTickMsg{id: m.display.marquee.id})
	if cmd == nil || m.display.marquee.offset != 1 {
		t.Error("Expected a current tick to advance the marquee")
	}
}

func TestReadMarqueeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marquee.txt")
	if err := os.WriteFile(path, []byte("Halo\n  dunia\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := readMarqueeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Halo dunia" {
		t.Errorf("Expected 'Halo dunia', got %q", got)
	}

	if _, err := readMarqueeFile(filepath.Join(t.TempDir(), "none.txt")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
