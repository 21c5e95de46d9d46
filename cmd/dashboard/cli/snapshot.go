package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"validprop/internal/dashboard"
	"validprop/internal/domain"
)

var snapshotJSON bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the dashboard once and print it",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print raw JSON")
}

type snapshotOutput struct {
	Stats     domain.DashboardStats  `json:"stats"`
	Activity  []domain.ActivityEntry `json:"activity"`
	FetchedAt time.Time              `json:"fetchedAt"`
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	out, err := fetchSnapshot(cmd.Context(), newClient(cfg, logger))
	if err != nil {
		return err
	}

	if snapshotJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printSnapshot(cmd.OutOrStdout(), out)
}

// fetchSnapshot reads both endpoints concurrently. Either failing fails
// the snapshot.
func fetchSnapshot(ctx context.Context, source dashboard.Source) (snapshotOutput, error) {
	var out snapshotOutput

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := source.DashboardStats(gctx)
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}
		out.Stats = stats
		return nil
	})
	g.Go(func() error {
		activity, err := source.RecentActivity(gctx)
		if err != nil {
			return fmt.Errorf("fetch activity: %w", err)
		}
		out.Activity = activity
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshotOutput{}, err
	}

	out.FetchedAt = time.Now().UTC()
	return out, nil
}

func printSnapshot(w io.Writer, out snapshotOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range dashboard.Cards(out.Stats) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Title, c.Value, c.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent Activity")
	if len(out.Activity) == 0 {
		fmt.Fprintln(w, "  No recent activity")
		return nil
	}
	for _, e := range out.Activity {
		fmt.Fprintf(w, "  - %s\n", e.Label())
	}
	return nil
}
