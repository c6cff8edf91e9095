package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/reminderd/internal/reminder"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Bright cyan
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Warm yellow
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	OverdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	priorityStyles = map[string]lipgloss.Style{
		reminder.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		reminder.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("222")),
		reminder.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		reminder.PriorityUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

type Formatter struct {
	colored bool
	clock   func() time.Time
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{
		colored: colored,
		clock:   time.Now,
	}
}

func (f *Formatter) FormatError(err error) string {
	msg := fmt.Sprintf("Error: %v", err)
	if f.colored {
		return ErrorStyle.Render(msg)
	}
	return msg
}

func (f *Formatter) FormatSuccess(msg string) string {
	if f.colored {
		return SuccessStyle.Render("✓ " + msg)
	}
	return "✓ " + msg
}

func (f *Formatter) FormatWarning(msg string) string {
	if f.colored {
		return WarningStyle.Render("! " + msg)
	}
	return "! " + msg
}

// FormatReminderLine renders a single-line summary of a reminder for list
// views.
func (f *Formatter) FormatReminderLine(r reminder.Reminder) string {
	due := f.formatDue(r)
	priority := strings.ToUpper(r.Priority)

	if f.colored {
		if style, ok := priorityStyles[r.Priority]; ok {
			priority = style.Render(priority)
		}
		return fmt.Sprintf("%s  %s [%s] %s  %s",
			DimStyle.Render(r.ID), TitleStyle.Render(r.Title), priority, due, DimStyle.Render(r.Status))
	}
	return fmt.Sprintf("%s  %s [%s] %s  %s", r.ID, r.Title, priority, due, r.Status)
}

// FormatReminderList renders a reminder list, one line each.
func (f *Formatter) FormatReminderList(reminders []reminder.Reminder) string {
	if len(reminders) == 0 {
		return f.FormatWarning("No reminders.")
	}

	lines := make([]string, 0, len(reminders))
	for _, r := range reminders {
		lines = append(lines, f.FormatReminderLine(r))
	}
	return strings.Join(lines, "\n")
}

// FormatReminderDetail renders a full reminder, running the description
// through the markdown renderer.
func (f *Formatter) FormatReminderDetail(r reminder.Reminder) string {
	var b strings.Builder

	title := r.Title
	if f.colored {
		title = TitleStyle.Render(title)
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "  ID:       %s\n", r.ID)
	fmt.Fprintf(&b, "  Due:      %s (%s)\n", r.DueDate.Local().Format("Mon Jan 2 15:04"), f.formatDue(r))
	fmt.Fprintf(&b, "  Priority: %s\n", r.Priority)
	fmt.Fprintf(&b, "  Status:   %s\n", r.Status)
	if r.IsRecurring {
		fmt.Fprintf(&b, "  Repeats:  every %d %s\n", r.RecurrenceInterval, r.RecurrenceType)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "  Tags:     %s\n", strings.Join(r.Tags, ", "))
	}

	if r.Description != "" {
		b.WriteString(f.renderMarkdown(r.Description))
	}
	return b.String()
}

func (f *Formatter) formatDue(r reminder.Reminder) string {
	delta := r.DueDate.Sub(f.clock())
	minutes := int(delta.Minutes())

	var text string
	switch {
	case minutes < 0:
		text = fmt.Sprintf("overdue %s", formatMinutes(-minutes))
		if f.colored {
			return OverdueStyle.Render(text)
		}
	case minutes < 60:
		text = fmt.Sprintf("due in %dm", minutes)
	case minutes < 24*60:
		text = fmt.Sprintf("due in %dh %dm", minutes/60, minutes%60)
	default:
		text = fmt.Sprintf("due in %dd", minutes/(24*60))
	}
	return text
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

func (f *Formatter) renderMarkdown(content string) string {
	if !f.colored {
		return content + "\n"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content + "\n"
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}
