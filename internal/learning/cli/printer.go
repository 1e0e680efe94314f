package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/session"
)

// printer writes to the terminal; the theme only picks heading colors.
// Notifications arrive from push goroutines, so writes are serialized.
type printer struct {
	mu    *sync.Mutex
	out   io.Writer
	theme session.Theme
}

func newPrinter(out io.Writer, theme session.Theme) printer {
	return printer{mu: &sync.Mutex{}, out: out, theme: theme}
}

func (p printer) heading(format string, args ...any) {
	color := "\033[1;34m"
	if p.theme == session.ThemeDark {
		color = "\033[1;36m"
	}
	p.write(color+format+"\033[0m\n", args...)
}

func (p printer) line(format string, args ...any) {
	p.write(format+"\n", args...)
}

func (p printer) prompt(s string) {
	p.write("%s", s)
}

func (p printer) write(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

type printNotifier struct {
	p printer
}

func (n printNotifier) Success(msg string)          { n.p.line("✓ %s", msg) }
func (n printNotifier) Error(msg string, err error) { n.p.line("! %s: %v", msg, err) }

func (n printNotifier) Score(_ uuid.UUID, score int) {
	n.p.line("Quiz score saved: %d%%", score)
}
