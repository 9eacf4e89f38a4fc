package tts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/antrian/loket/internal/queue"
)

// maxPhraseLen bounds what a single announcement may say.
const maxPhraseLen = 500

// Phrase renders the spoken text for a call.
type Phrase struct {
	tmpl *template.Template
}

// NewPhrase parses a text/template. The template sees a queue.CallEntry,
// so {{.Number}} and {{.Counter}} are available.
func NewPhrase(text string) (*Phrase, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultTemplate
	}
	t, err := template.New("phrase").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, NewError(ErrorCodeInvalidInput, "invalid announcement template", err)
	}
	p := &Phrase{tmpl: t}
	if _, err := p.Render(queue.CallEntry{Number: 1, Counter: "Loket 1"}); err != nil {
		return nil, err
	}
	return p, nil
}

// Render returns the phrase for entry.
func (p *Phrase) Render(entry queue.CallEntry) (string, error) {
	var b strings.Builder
	if err := p.tmpl.Execute(&b, entry); err != nil {
		return "", NewError(ErrorCodeInvalidInput, "unable to render announcement", err)
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	if s == "" {
		return "", NewError(ErrorCodeInvalidInput, "announcement is empty", nil)
	}
	if len(s) > maxPhraseLen {
		return "", NewError(ErrorCodeTextTooLong, fmt.Sprintf("announcement is %d bytes (max %d)", len(s), maxPhraseLen), nil)
	}
	return s, nil
}
