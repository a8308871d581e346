package cli

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var Version = "dev"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			r := lipgloss.NewRenderer(a.stdout)
			name := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")).Render("healthmon")
			fmt.Fprintf(a.stdout, "%s %s (%s/%s)\n", name, Version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
