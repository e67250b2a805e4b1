package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoList bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show statistics for the projected dataset",
	Long: `Loads and projects the dataset and prints its size.

With --list: also prints every country with its codes, colors and segment count`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoList, "list", false, "list every country")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	a := s.atlas
	st := a.Stats()

	fmt.Fprintf(out, "Dataset:   %s\n", s.cfg.Dataset.Source)
	fmt.Fprintf(out, "Countries: %d\n", st.Countries)
	fmt.Fprintf(out, "Segments:  %d\n", st.Segments)
	fmt.Fprintf(out, "Points:    %d\n", st.Points)
	fmt.Fprintf(out, "Origin:    %.4f, %.4f\n", a.Origin[0], a.Origin[1])
	fmt.Fprintf(out, "Scale:     %.4f units/degree\n", a.Scale)
	fmt.Fprintf(out, "Bounds:    %.1f x %.1f\n", a.Bounds.Width, a.Bounds.Height)

	if !infoList {
		return nil
	}
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ISO3\tISO2\tNAME\tCOLOR\tSEGMENTS")
	for _, c := range a.Countries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.ISO3, c.ISO2, c.Name, c.BaseColor.HexString(), len(c.Segments))
	}
	return tw.Flush()
}
