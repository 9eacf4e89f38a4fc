package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
)

// helpMarkdown lists the bindings of k as a markdown table.
func helpMarkdown(k help.KeyMap) string {
	var b strings.Builder
	b.WriteString("# Bantuan Petugas\n\n")
	b.WriteString("| Tombol | Fungsi |\n| --- | --- |\n")
	for _, group := range k.FullHelp() {
		for _, kb := range group {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\nNomor berikutnya adalah nomor terakhir ditambah satu. ")
	b.WriteString("Setelah reset, penomoran dimulai lagi dari **1** tanpa memperhatikan nomor awal.\n\n")
	b.WriteString("Tekan `?` atau `esc` untuk kembali.\n")
	return b.String()
}

func glamourRender(style string, width int, markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("error creating glamour renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	return out, nil
}

// renderHelp renders the help overlay, reusing the last render while the
// width is unchanged.
func (t *tellerModel) renderHelp(width int) string {
	if t.helpView != "" && t.helpW == width {
		return t.helpView
	}
	md := helpMarkdown(tellerKeys{keys})
	out, err := glamourRender(t.common.cfg.GlamourStyle, max(20, width-2), md)
	if err != nil {
		log.Error("error rendering help with Glamour", "error", err)
		out = md
	}
	t.helpView, t.helpW = out, width
	return out
}
