package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"contentprep/internal/config"
	"contentprep/internal/content"
	"contentprep/internal/prep"
	"contentprep/internal/store"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "analyze [folder...]",
		Short: "Detect content sets in pending folders",
		Long: "Lists each folder, groups its files into content sets and stores them.\n" +
			"With no folder the configured pending_dir is analysed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := ctx.resolveFolders(args)
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				analyses, err := svc.AnalyzeFolders(cmd.Context(), folders, mode)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, analyses, func(out io.Writer, colorize bool) error {
					for i, analysis := range analyses {
						if i > 0 {
							fmt.Fprintln(out)
						}
						renderAnalysis(out, analysis, colorize)
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Detection mode: auto, pattern, or prefix (defaults to config)")
	return cmd
}

// resolveFolders expands folder arguments, falling back to the configured
// pending directory.
func (c *commandContext) resolveFolders(args []string) ([]string, error) {
	if len(args) == 0 {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(cfg.Paths.PendingDir) == "" {
			return nil, errors.New("no folder given and paths.pending_dir is not configured")
		}
		args = []string{cfg.Paths.PendingDir}
	}
	folders := make([]string, 0, len(args))
	for _, arg := range args {
		expanded, err := config.ExpandPath(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("resolve folder %q: %w", arg, err)
		}
		folders = append(folders, expanded)
	}
	return folders, nil
}

func renderAnalysis(out io.Writer, analysis prep.Analysis, colorize bool) {
	fmt.Fprintf(out, "Folder: %s (mode %s)\n", analysis.Folder, analysis.Mode)
	if len(analysis.Sets) == 0 {
		fmt.Fprintln(out, "No content sets detected")
	} else {
		fmt.Fprint(out, renderSetTable(analysis.Sets, colorize))
	}
	if len(analysis.Standalone) > 0 {
		fmt.Fprintf(out, "Standalone files (%d):\n", len(analysis.Standalone))
		for _, file := range analysis.Standalone {
			fmt.Fprintf(out, "  %s\n", file.Path)
		}
	}
}

func renderSetTable(sets []content.Set, colorize bool) string {
	rows := make([][]string, 0, len(sets))
	for _, set := range sets {
		rows = append(rows, []string{
			set.ID,
			set.Name,
			string(set.Method),
			strconv.Itoa(len(set.Files)),
			yesNo(set.IsComplete),
			formatPositions(set.MissingPositions),
			strconv.FormatFloat(set.Confidence, 'f', 2, 64),
			statusLabel(set.Status, colorize),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "Method", "Files", "Complete", "Missing", "Confidence", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		colorize,
	)
}
