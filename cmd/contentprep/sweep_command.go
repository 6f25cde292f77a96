package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"contentprep/internal/prep"
	"contentprep/internal/store"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete completed sets older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			days := cfg.Retention.Days
			if cmd.Flags().Changed("retention-days") {
				days = retentionDays
			}
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				result, err := svc.Sweep(cmd.Context(), days)
				if errors.Is(err, prep.ErrSweepBusy) {
					return fmt.Errorf("%w; try again once the other sweep finishes", err)
				}
				if err != nil {
					return err
				}
				return ctx.emit(cmd, result, func(out io.Writer, _ bool) error {
					if days <= 0 {
						fmt.Fprintln(out, "Retention disabled; nothing swept")
						return nil
					}
					fmt.Fprintf(out, "Deleted %d completed set(s) finished before %s\n",
						len(result.Deleted), result.Cutoff.Format(time.RFC3339))
					for _, id := range result.Deleted {
						fmt.Fprintf(out, "  %s\n", id)
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "Override retention.days from the config")
	return cmd
}
