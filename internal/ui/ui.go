package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// FormatError returns a styled multi-line error message.
func FormatError(title, detail, suggestion string) string {
	out := errorStyle.Render("Error: "+title) + "\n"
	if detail != "" {
		out += "  " + detail + "\n"
	}
	if suggestion != "" {
		out += "  " + hintStyle.Render("Hint: "+suggestion) + "\n"
	}
	return out
}

// ImporterDone prints a styled status when an importer finishes.
func ImporterDone(name, detail string) {
	msg := successStyle.Render("  OK ") + " " + name
	if detail != "" {
		msg += " " + dimStyle.Render(detail)
	}
	fmt.Println(msg)
}

// ImporterSkipped prints a styled status when an importer is not enabled.
func ImporterSkipped(name string) {
	fmt.Printf("  %s %s\n", dimStyle.Render("--"), dimStyle.Render(name+" (skipped)"))
}

// Success prints a green success message.
func Success(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// Warn prints a yellow warning message.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("Warning: " + msg))
}

// Bold renders text in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Hint renders text in dim italic.
func Hint(s string) string {
	return hintStyle.Render(s)
}

// ValidationOK prints a green check for a valid field.
func ValidationOK(field, detail string) {
	fmt.Printf("  %s %s: %s\n", successStyle.Render("OK "), field, detail)
}

// ValidationErr prints a red error for an invalid field.
func ValidationErr(field, message, suggestion string) {
	fmt.Printf("  %s %s: %s\n", errorStyle.Render("ERR"), field, message)
	if suggestion != "" {
		fmt.Printf("      %s\n", hintStyle.Render("Hint: "+suggestion))
	}
}

// FormatFinding renders one finding on a single line.
func FormatFinding(f inventory.Finding) string {
	subject := string(f.Scope)
	if f.ID != "" {
		subject += " " + f.ID
	}
	return fmt.Sprintf("  %s %s: %s", warnStyle.Render("!"), boldStyle.Render(subject), f.Message)
}

// PrintFindings writes every finding to w, one per line.
func PrintFindings(w io.Writer, findings []inventory.Finding) {
	for _, f := range findings {
		fmt.Fprintln(w, FormatFinding(f))
	}
}

// ServerTable renders servers as a bordered table.
func ServerTable(servers []*inventory.Server) string {
	rows := make([][]string, 0, len(servers))
	for _, s := range servers {
		rows = append(rows, []string{
			s.ID,
			s.DisplayName(),
			s.Provider,
			s.Env,
			s.Role,
			s.Status,
			address(s),
			strings.Join(s.Tags, ","),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("ID", "NAME", "PROVIDER", "ENV", "ROLE", "STATUS", "ADDRESS", "TAGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String()
}

func address(s *inventory.Server) string {
	if s.Host == "" {
		return ""
	}
	addr := s.Host
	if s.User != "" {
		addr = s.User + "@" + addr
	}
	if s.Port != nil {
		addr += ":" + strconv.Itoa(*s.Port)
	}
	return addr
}
