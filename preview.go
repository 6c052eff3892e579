package main

import (
	"fmt"

	"github.com/matt-g-everett/ledseq/logging"
	"github.com/matt-g-everett/ledseq/stream"
	"github.com/matt-g-everett/ledseq/util"
	"github.com/spf13/cobra"
)

var (
	previewScene  string
	previewUntil  int64
	previewStep   int64
	previewPixels int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Run a scene offline and print each element's CSS per tick",
	RunE: func(cmd *cobra.Command, args []string) error {
		if previewStep <= 0 {
			return fmt.Errorf("--step must be positive, got %d", previewStep)
		}
		scene, err := stream.LoadScene(previewScene, previewPixels, logging.Component("scene"))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for tick := int64(0); tick <= previewUntil; tick += previewStep {
			scene.CalculateFrame(tick)
			for _, st := range scene.Statuses() {
				fmt.Fprintf(out, "%6d  %-12s %s\n", tick, st.Name, st.CSS)
			}
		}
		return nil
	},
}

var easesCmd = &cobra.Command{
	Use:   "eases",
	Short: "List the easing names steps may use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range util.EaseNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewScene, "scene", "scene.yaml", "Scene file to run.")
	previewCmd.Flags().Int64Var(&previewUntil, "until", 2000, "Last tick to print, in ms.")
	previewCmd.Flags().Int64Var(&previewStep, "step", 100, "Ticks between prints, in ms.")
	previewCmd.Flags().IntVar(&previewPixels, "pixels", stream.DefaultPixels, "Strip length.")
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(easesCmd)
}
