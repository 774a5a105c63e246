package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Akashdeep-Patra/zed-list-view/internal/logging"
	"github.com/Akashdeep-Patra/zed-list-view/internal/simulate"
	"github.com/spf13/cobra"
)

// buildSimulateCmd creates `zlv simulate`, a headless replay of a list
// being mounted and scrolled to the end.
func buildSimulateCmd() *cobra.Command {
	var (
		jsonOutput bool
		verbose    bool
		script     = simulate.DefaultScript()
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a list headlessly and print what the engine did",
		Long: `Mount a list of --rows rows in a --viewport tall viewport, then scroll to
the end in --step increments. Prints the render passes, end-reached events
and visibility changes, followed by the final metrics.

List options default to the config file's list section; flags override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			list := cfg.ListConfig()
			flags := cmd.Flags()
			if flags.Changed("page-size") {
				list.PageSize = script.List.PageSize
			}
			if flags.Changed("initial") {
				list.InitialListSize = script.List.InitialListSize
			}
			if flags.Changed("render-ahead") {
				list.ScrollRenderAheadDistance = script.List.ScrollRenderAheadDistance
			}
			if flags.Changed("threshold") {
				list.OnEndReachedThreshold = script.List.OnEndReachedThreshold
			}
			script.List = list

			if verbose {
				logging.SetVerbose(true)
			}
			log := logging.New(cmd.ErrOrStderr())

			rep, err := simulate.Run(script, log)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}

	f := cmd.Flags()
	f.IntVar(&script.Rows, "rows", script.Rows, "Number of rows in the list")
	f.Float64Var(&script.RowHeight, "row-height", script.RowHeight, "Height of every row")
	f.Float64Var(&script.Viewport, "viewport", script.Viewport, "Viewport height")
	f.Float64Var(&script.Step, "step", script.Step, "Scroll distance per event (0 = no scrolling)")
	f.IntVar(&script.List.PageSize, "page-size", script.List.PageSize, "Rows added per window advance")
	f.IntVar(&script.List.InitialListSize, "initial", script.List.InitialListSize, "Rows materialized on mount")
	f.Float64Var(&script.List.ScrollRenderAheadDistance, "render-ahead", script.List.ScrollRenderAheadDistance, "Distance from the end that pages in more rows")
	f.Float64Var(&script.List.OnEndReachedThreshold, "threshold", script.List.OnEndReachedThreshold, "Distance from the end that fires end-reached")
	f.BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	f.BoolVarP(&verbose, "verbose", "v", false, "Log engine diagnostics to stderr")

	return cmd
}

func printReport(w io.Writer, rep *simulate.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tOFFSET\tDETAIL")
	for _, ev := range rep.Events {
		var detail string
		switch ev.Kind {
		case "render":
			detail = fmt.Sprintf("%d rows materialized", ev.Materialized)
		case "end_reached":
			detail = fmt.Sprintf("content length %g", ev.ContentLength)
		case "visible":
			detail = fmt.Sprintf("%d visible, %d changed", ev.Visible, ev.Changed)
		}
		fmt.Fprintf(tw, "%s\t%g\t%s\n", ev.Kind, ev.Offset, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\npasses %d · end reached %d · rows %d/%d · visible %d · content %g\n",
		rep.Passes, rep.EndReached, rep.RenderedRows, rep.TotalRows, rep.VisibleRows, rep.ContentLength)
	return err
}
