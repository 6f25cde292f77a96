package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"contentprep/internal/config"
	"contentprep/internal/content"
	"contentprep/internal/prep"
	"contentprep/internal/store"
)

func newSetsCommand(ctx *commandContext) *cobra.Command {
	setsCmd := &cobra.Command{
		Use:   "sets",
		Short: "Inspect and manage stored content sets",
	}

	setsCmd.AddCommand(newSetsListCommand(ctx))
	setsCmd.AddCommand(newSetsShowCommand(ctx))
	setsCmd.AddCommand(newSetsCreateCommand(ctx))
	setsCmd.AddCommand(newSetsReorderCommand(ctx))
	setsCmd.AddCommand(newSetsTransitionCommand(ctx, "complete", "Mark a set as processed", (*prep.Service).MarkComplete))
	setsCmd.AddCommand(newSetsTransitionCommand(ctx, "fail", "Mark a set as failed", (*prep.Service).MarkFailed))
	setsCmd.AddCommand(newSetsTransitionCommand(ctx, "retry", "Return a failed set to pending", (*prep.Service).Retry))

	return setsCmd
}

func newSetsListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var folder string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildSetFilter(statuses, folder, limit)
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				sets, err := svc.ListSets(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, sets, func(out io.Writer, colorize bool) error {
					if len(sets) == 0 {
						fmt.Fprintln(out, "No content sets")
						return nil
					}
					fmt.Fprint(out, renderSetTable(sets, colorize))
					return nil
				})
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().StringVar(&folder, "folder", "", "Only sets detected in this folder")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of sets to list")
	return cmd
}

func buildSetFilter(statuses []string, folder string, limit int) (store.Filter, error) {
	filter := store.Filter{Limit: limit}
	for _, raw := range statuses {
		status, ok := content.ParseStatus(raw)
		if !ok {
			return store.Filter{}, fmt.Errorf("unknown status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if strings.TrimSpace(folder) != "" {
		expanded, err := config.ExpandPath(strings.TrimSpace(folder))
		if err != nil {
			return store.Filter{}, fmt.Errorf("resolve folder: %w", err)
		}
		filter.Folder = expanded
	}
	return filter, nil
}

func newSetsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <set-id>",
		Short: "Show a content set and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				set, err := svc.GetSet(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return ctx.emit(cmd, set, func(out io.Writer, colorize bool) error {
					renderSet(out, set, colorize)
					return nil
				})
			})
		},
	}
}

func newSetsCreateCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create --name <name> <path>...",
		Short: "Create a content set from files in the given order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				expanded, err := config.ExpandPath(strings.TrimSpace(arg))
				if err != nil {
					return fmt.Errorf("resolve path %q: %w", arg, err)
				}
				paths = append(paths, expanded)
			}
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				set, err := svc.CreateManualSet(cmd.Context(), name, paths)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, set, func(out io.Writer, colorize bool) error {
					fmt.Fprintf(out, "Created content set %s\n", set.ID)
					renderSet(out, set, colorize)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the set")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSetsReorderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <set-id> <file>...",
		Short: "Set the processing order of a content set by filename",
		Long: "Re-ranks a pending or failed set in the given order. Every member filename\n" +
			"must be listed exactly once. The order survives re-analysis until the\n" +
			"set's members change.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				set, err := svc.ReorderSet(cmd.Context(), strings.TrimSpace(args[0]), args[1:])
				if err != nil {
					return err
				}
				return ctx.emit(cmd, set, func(out io.Writer, colorize bool) error {
					fmt.Fprintf(out, "Reordered content set %s\n", set.ID)
					renderSet(out, set, colorize)
					return nil
				})
			})
		},
	}
}

type transitionFunc func(*prep.Service, context.Context, string) (content.Set, error)

func newSetsTransitionCommand(ctx *commandContext, use, short string, apply transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <set-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				updated := make([]content.Set, 0, len(args))
				for _, id := range args {
					set, err := apply(svc, cmd.Context(), strings.TrimSpace(id))
					if err != nil {
						return err
					}
					updated = append(updated, set)
				}
				return ctx.emit(cmd, updated, func(out io.Writer, colorize bool) error {
					for _, set := range updated {
						fmt.Fprintf(out, "%s %s -> %s\n", set.ID, set.Name, statusLabel(set.Status, colorize))
					}
					return nil
				})
			})
		},
	}
}

func renderSet(out io.Writer, set content.Set, colorize bool) {
	rows := [][]string{
		{"ID", set.ID},
		{"Name", set.Name},
		{"Folder", set.Folder},
		{"Method", string(set.Method)},
		{"Status", statusLabel(set.Status, colorize)},
		{"Complete", yesNo(set.IsComplete)},
		{"Missing", joinOrDash(set.MissingDescriptors())},
		{"Confidence", strconv.FormatFloat(set.Confidence, 'f', 2, 64)},
		{"Updated", set.UpdatedAt.Format(time.RFC3339)},
	}
	if set.CompletedAt != nil {
		rows = append(rows, []string{"Completed", set.CompletedAt.Format(time.RFC3339)})
	}
	fmt.Fprint(out, keyValueTable(rows, colorize))
	fmt.Fprint(out, renderOrderTable(set.Files, colorize))
}
