package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/saarzint/bolgenie/domain"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func toastOK(format string, args ...any) {
	fmt.Println(okStyle.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func toastErr(err error) {
	fmt.Fprintln(os.Stderr, errStyle.Render("✗")+" "+domain.Normalize(err).UserMessage())
}

func dim(s string) string  { return dimStyle.Render(s) }
func head(s string) string { return headStyle.Render(s) }
