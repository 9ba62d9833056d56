package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Qalifah/harbor/port"
	"github.com/Qalifah/harbor/ship"
)

func newInspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the ships and fuel consumption of a saved port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := port.Load(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "    ")
				return enc.Encode(p.Record())
			}
			return printPort(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the port record as JSON")
	return cmd
}

func printPort(out io.Writer, p *port.Port) error {
	fmt.Fprintf(out, "Port %d at (%g, %g)\n", p.ID, p.Coordinates.Latitude, p.Coordinates.Longitude)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tSHIP\tCONTAINERS\tWEIGHT\tCAPACITY\tCONSUMPTION")
	row := func(status string, s *ship.Ship) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%g\n",
			status, s.ID, len(s.Containers()), s.TotalWeight(), s.MaxWeight, s.TotalConsumption())
	}
	for _, s := range p.Ships() {
		row("docked", s)
	}
	for _, s := range p.History() {
		row("departed", s)
	}
	return w.Flush()
}
