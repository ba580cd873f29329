package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/pkg/flow"
)

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "List the available flows",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, engine, err := openEngine(cmd)
		if err != nil {
			return err
		}
		ids, err := engine.Flows()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No flows found.")
			return nil
		}
		sort.Strings(ids)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tQUESTIONS")
		for _, id := range ids {
			f, err := engine.Flow(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\n", f.ID(), f.Title(), f.Len())
		}
		return tw.Flush()
	},
}

var flowsExportCmd = &cobra.Command{
	Use:   "export <output-dir>",
	Short: "Write the available flows as YAML definitions",
	Long: `Writes one <flow-id>.yaml file per flow into the output directory.
The result can be edited and loaded back with --dir.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, engine, err := openEngine(cmd)
		if err != nil {
			return err
		}
		ids, err := engine.Flows()
		if err != nil {
			return err
		}
		sort.Strings(ids)

		all := make([]*flow.Flow, 0, len(ids))
		for _, id := range ids {
			f, err := engine.Flow(id)
			if err != nil {
				return err
			}
			all = append(all, f)
		}

		written, err := cli.ExportFlows(args[0], all)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flowsCmd)
	flowsCmd.AddCommand(flowsExportCmd)
}
