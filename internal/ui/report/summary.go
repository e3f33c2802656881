// # internal/ui/report/summary.go
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// Summary counts what one run did.
type Summary struct {
	RunID      string
	Files      int
	Changed    int
	Unchanged  int
	Failed     int
	Docstrings int
	Duration   time.Duration
}

func (s Summary) OK() bool { return s.Failed == 0 }

// RenderSummary formats s for a terminal.
func RenderSummary(s Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("doq summary"))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  files:      %d\n", s.Files))
	b.WriteString("  changed:    " + successStyle.Render(fmt.Sprintf("%d", s.Changed)) + "\n")
	b.WriteString(fmt.Sprintf("  unchanged:  %d\n", s.Unchanged))
	if s.Failed > 0 {
		b.WriteString("  failed:     " + failureStyle.Render(fmt.Sprintf("%d", s.Failed)) + "\n")
	}
	b.WriteString(fmt.Sprintf("  docstrings: %d\n", s.Docstrings))
	b.WriteString(statusStyle.Render(fmt.Sprintf("run %s in %s", s.RunID, s.Duration.Round(time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}
