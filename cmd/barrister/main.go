// Command barrister runs the catalyst solver against a TOML config file.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/luke-kiernan/barrister/internal/config"
	"github.com/luke-kiernan/barrister/internal/life"
	"github.com/luke-kiernan/barrister/internal/obslog"
	"github.com/luke-kiernan/barrister/internal/progress"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		continueAfterSuccess bool
		printSummary         bool
		stabiliseResults     bool
		statusAddr           string
		debugLog             bool
		jsonLog              bool
	)

	cmd := &cobra.Command{
		Use:   "barrister <config.toml>",
		Short: "Search for Conway's Game of Life catalysts under a declarative config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := obslog.New(obslog.Config{JSON: jsonLog, Debug: debugLog})

			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			config.SetCurrent(cfg)

			if cmd.Flags().Changed("continue-after-success") {
				cfg.ContinueAfterSuccess = continueAfterSuccess
			}
			if cmd.Flags().Changed("print-summary") {
				cfg.PrintSummary = printSummary
			}
			if cmd.Flags().Changed("stabilise-results") {
				cfg.StabiliseResults = stabiliseResults
			}

			params, err := config.Build(cfg)
			if err != nil {
				return err
			}

			stats := &life.Stats{Started: time.Now()}
			search := life.NewSearchState(params, log, stats)

			var hub *progress.Hub
			if statusAddr != "" {
				hub = progress.NewHub()
				srv := &http.Server{Addr: statusAddr, Handler: progress.Router(hub)}
				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Warn("status server stopped", "error", err)
					}
				}()
				log.Info("status server listening", "addr", statusAddr)
			}

			search.OnSolution = func(sol life.Solution) {
				if hub != nil {
					hub.Publish(progress.Snapshot{
						Nodes:     stats.Nodes,
						Solutions: stats.Solutions,
						LastRLE:   sol.RLE,
					})
				}
				fmt.Println("Winner:")
				fmt.Println(sol.RLE)
				if sol.CompletedRLE != "" {
					fmt.Println("Completed:")
					fmt.Println(sol.CompletedRLE)
				}
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			done := make(chan struct{})
			go func() {
				select {
				case <-sigCh:
					log.Info("interrupted, finishing current branch")
					search.Done.Store(true)
				case <-done:
				}
			}()

			search.Search()
			close(done)
			signal.Stop(sigCh)

			if cfg.PrintSummary {
				elapsed := time.Since(stats.Started)
				log.Info("search complete",
					"nodes", stats.Nodes,
					"solutions", stats.Solutions,
					"backtracks", stats.Backtracks,
					"inconsistent", stats.InconsistentStable,
					"elapsed", elapsed,
				)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&continueAfterSuccess, "continue-after-success", false, "keep searching after the first solution")
	cmd.Flags().BoolVar(&printSummary, "print-summary", true, "print a summary of search statistics at the end")
	cmd.Flags().BoolVar(&stabiliseResults, "stabilise-results", true, "run stable completion on each solution")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "optional host:port to serve live search status on")
	cmd.Flags().BoolVar(&debugLog, "debug", false, "enable debug-level logging")
	cmd.Flags().BoolVar(&jsonLog, "json-log", false, "emit structured JSON logs instead of text")

	return cmd
}
