package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"contentprep/internal/logging"
	"contentprep/internal/prep"
	"contentprep/internal/store"
	"contentprep/internal/textutil"
	"contentprep/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var mode string
	var skipInitial bool

	cmd := &cobra.Command{
		Use:   "watch [folder]",
		Short: "Re-analyse a pending folder whenever its contents settle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := ctx.resolveFolders(args)
			if err != nil {
				return err
			}
			folder := folders[0]
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				out := cmd.OutOrStdout()
				handler := func(hctx context.Context, dir string) error {
					analysis, err := svc.Analyze(hctx, dir, mode)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s analysed %s: %d set(s), %d standalone file(s)\n",
						time.Now().Format(time.TimeOnly), dir, len(analysis.Sets), len(analysis.Standalone))
					return nil
				}
				watcher := watch.New(folder, handler, watch.Options{
					Debounce:   time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
					LockPath:   cfg.LockPath("watch-" + textutil.FolderToken(folder)),
					RunOnStart: !skipInitial,
					Logger:     logger,
				})
				logger.Info("watching pending folder", logging.Args(logging.String(logging.FieldFolder, folder))...)
				fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", folder)
				return watcher.Run(runCtx)
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Detection mode: auto, pattern, or prefix (defaults to config)")
	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "Wait for the first change instead of analysing immediately")
	return cmd
}
