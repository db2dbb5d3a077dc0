package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kydenul/dlt"
	"github.com/kydenul/dlt/httpapi"
)

func newFetchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the latest draws and print them as a table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, _, engine, err := setup(opts)
			if err != nil {
				return err
			}
			defer engine.Close()

			report := engine.Refresh(cmd.Context())
			printTable(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print front and back zone frequency histograms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, _, engine, err := setup(opts)
			if err != nil {
				return err
			}
			defer engine.Close()

			report := engine.Refresh(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Message)
			if report.Empty() {
				return nil
			}

			fmt.Fprintf(out, "\nFront zone (%d draws)\n", report.ValidCount())
			printHistogram(out, report.FrontHistogram())
			fmt.Fprintln(out, "\nBack zone")
			printHistogram(out, report.BackHistogram())

			if top > 0 {
				fmt.Fprintf(out, "\nHottest front: %s\n", formatBuckets(report.Front.Top(top)))
				fmt.Fprintf(out, "Hottest back:  %s\n", formatBuckets(report.Back.Top(top)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "list the N most frequent numbers per zone")
	return cmd
}

func newRecommendCmd(opts *options) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest random number sets (uniform, without replacement)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sampler := dlt.NewSampler()
			for i := 0; i < count; i++ {
				set, err := sampler.Recommend()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), set.String())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of suggestions")
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and refresh draws on a schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cm, config, logger, engine, err := setup(opts)
			if err != nil {
				return err
			}
			defer engine.Close()

			var scheduler *dlt.RefreshScheduler
			if config.Refresh.Enabled {
				scheduler = dlt.NewRefreshScheduler(engine, nil, logger)
				if err := scheduler.Start(config.Refresh.Interval); err != nil {
					return err
				}
				defer scheduler.Stop()
			}

			cm.WatchConfig(func(c *dlt.Config) {
				if err := engine.UpdateConfig(c); err != nil {
					logger.Error("Ignoring config change: %v", err)
					return
				}
				if scheduler != nil {
					if err := scheduler.Reschedule(c.Refresh.Interval); err != nil {
						logger.Error("Reschedule failed: %v", err)
					}
				}
				logger.Info("Config reloaded")
			})

			server := httpapi.NewServer(engine, logger)
			errCh := make(chan error, 1)
			go func() { errCh <- server.ListenAndServe(config.Server.Addr) }()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sig)

			select {
			case err := <-errCh:
				return err
			case s := <-sig:
				logger.Info("Received %v, shutting down", s)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}

func printTable(out io.Writer, report *dlt.Report) {
	fmt.Fprintln(out, report.Message)
	if report.Empty() {
		return
	}
	if report.FromCache {
		fmt.Fprintf(out, "(cached, next refresh after %s)\n", report.NextRefresh.Format(time.DateTime))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DRAW\tDATE\tRESULT\tFRONT\tBACK")
	for _, d := range report.Draws {
		date := "-"
		if d.Record.DrawDate != nil {
			date = d.Record.DrawDate.Format(time.DateOnly)
		}
		front, back := "invalid", "invalid"
		if d.Numbers != nil {
			front, back = joinNums(d.Numbers.Front), joinNums(d.Numbers.Back)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Record.ID, date, d.Record.Result, front, back)
	}
	w.Flush()

	for _, issue := range report.Issues {
		fmt.Fprintf(out, "warning: draw %s: %s\n", issue.DrawID, issue.ErrorMsg)
	}
}

func printHistogram(out io.Writer, buckets []dlt.Bucket) {
	max := 0
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	const width = 40
	for _, b := range buckets {
		bar := 0
		if max > 0 {
			bar = b.Count * width / max
		}
		fmt.Fprintf(out, "%02d | %-*s %d\n", b.Number, width, strings.Repeat("#", bar), b.Count)
	}
}

func formatBuckets(buckets []dlt.Bucket) string {
	parts := make([]string, len(buckets))
	for i, b := range buckets {
		parts[i] = fmt.Sprintf("%02d(%d)", b.Number, b.Count)
	}
	return strings.Join(parts, " ")
}

func joinNums(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}
