// Package species implements the species listing command.
package species

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/castnet/castnet-go/internal/conf"
)

// Command creates the species command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "List supported species profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecies(settings)
		},
	}
}

func runSpecies(settings *conf.Settings) error {
	names := make([]string, 0, len(settings.Species))
	for name := range settings.Species {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tTEMP RANGE\tPRESSURE SENSITIVE\tACTIVE HOURS")
	for _, name := range names {
		profile := settings.Species[name]
		hours := make([]string, 0, len(profile.ActiveHours))
		for _, hr := range profile.ActiveHours {
			hours = append(hours, fmt.Sprintf("%02d-%02d", hr.Start, hr.End))
		}
		fmt.Fprintf(w, "%s\t%.0f-%.0f C\t%t\t%s\n",
			name, profile.TempMinC, profile.TempMaxC, profile.PressureSensitive, strings.Join(hours, ", "))
	}
	return w.Flush()
}
