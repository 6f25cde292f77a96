package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"contentprep/internal/content"
	"contentprep/internal/manifest"
	"contentprep/internal/prep"
	"contentprep/internal/store"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <set-id>",
		Short: "Check a content set for gaps in its sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				validation, err := svc.Validate(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return ctx.emit(cmd, validation, func(out io.Writer, colorize bool) error {
					rows := [][]string{
						{"Set", validation.SetName},
						{"ID", validation.SetID},
						{"Complete", yesNo(validation.IsComplete)},
						{"Missing", joinOrDash(validation.Descriptors)},
						{"Unordered files", joinOrDash(validation.Unordered)},
					}
					fmt.Fprint(out, keyValueTable(rows, colorize))
					writeWarnings(out, validation.Warnings)
					return nil
				})
			})
		},
	}
}

func newOrderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "order <set-id>",
		Short: "Show the processing order of a content set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				report, err := svc.Order(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return ctx.emit(cmd, report, func(out io.Writer, colorize bool) error {
					fmt.Fprint(out, renderOrderTable(report.Files, colorize))
					if report.Escalated {
						fmt.Fprintf(out, "Unranked files ordered by: %s\n", report.Source)
					}
					if report.NeedsReview {
						fmt.Fprintf(out, "Ordering confidence %.2f is below %.2f; confirm it with `contentprep sets reorder %s <file>...`\n",
							report.Confidence, report.Threshold, strings.TrimSpace(args[0]))
					}
					writeWarnings(out, report.Warnings)
					return nil
				})
			})
		},
	}
}

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var proceed bool
	var all bool

	cmd := &cobra.Command{
		Use:   "manifest <set-id> | --all",
		Short: "Generate a processing manifest for a content set",
		Long: "Builds the ordered processing plan for a set and records it. Incomplete\n" +
			"sets are refused unless --proceed-incomplete is given. With --all every\n" +
			"pending set is planned and one row is printed per set.",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				if all {
					return runManifestAll(cmd, ctx, svc, proceed)
				}
				m, err := svc.Manifest(cmd.Context(), strings.TrimSpace(args[0]), proceed)
				if err != nil {
					return explainManifestError(err)
				}
				return ctx.emit(cmd, m, func(out io.Writer, colorize bool) error {
					renderManifest(out, m, colorize)
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&proceed, "proceed-incomplete", false, "Generate a manifest even when sequence positions are missing")
	cmd.Flags().BoolVar(&all, "all", false, "Generate manifests for every pending set")
	cmd.AddCommand(newManifestShowCommand(ctx))
	return cmd
}

func newManifestShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <set-id>",
		Short: "Show the most recent manifest stored for a content set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *prep.Service, _ *store.Store) error {
				m, err := svc.LatestManifest(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return ctx.emit(cmd, m, func(out io.Writer, colorize bool) error {
					renderManifest(out, m, colorize)
					return nil
				})
			})
		},
	}
}

// manifestOutcome is one row of `manifest --all`.
type manifestOutcome struct {
	SetID      string `json:"content_set_id" yaml:"content_set_id"`
	ManifestID string `json:"manifest_id,omitempty" yaml:"manifest_id,omitempty"`
	TotalFiles int    `json:"total_files" yaml:"total_files"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runManifestAll(cmd *cobra.Command, ctx *commandContext, svc *prep.Service, proceed bool) error {
	outcomes, err := svc.ManifestAll(cmd.Context(), proceed)
	if err != nil {
		return err
	}
	rows := make([]manifestOutcome, 0, len(outcomes))
	failed := 0
	for _, outcome := range outcomes {
		row := manifestOutcome{SetID: outcome.SetID}
		if outcome.Err != nil {
			row.Error = explainManifestError(outcome.Err).Error()
			failed++
		} else {
			row.ManifestID = outcome.Manifest.ID
			row.TotalFiles = outcome.Manifest.TotalFiles
		}
		rows = append(rows, row)
	}
	if err := ctx.emit(cmd, rows, func(out io.Writer, colorize bool) error {
		if len(rows) == 0 {
			fmt.Fprintln(out, "No pending content sets")
			return nil
		}
		fmt.Fprint(out, renderOutcomeTable(rows, colorize))
		return nil
	}); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d content sets could not be planned", failed, len(rows))
	}
	return nil
}

func renderOutcomeTable(rows []manifestOutcome, colorize bool) string {
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		manifestID, files, problem := row.ManifestID, strconv.Itoa(row.TotalFiles), "-"
		if row.Error != "" {
			manifestID, files, problem = "-", "-", row.Error
		}
		table = append(table, []string{row.SetID, manifestID, files, problem})
	}
	return renderTable(
		[]string{"Set", "Manifest", "Files", "Error"},
		table,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		colorize,
	)
}

func explainManifestError(err error) error {
	var incomplete *manifest.IncompleteSetError
	if errors.As(err, &incomplete) {
		return fmt.Errorf("%w; re-run with --proceed-incomplete to generate a manifest anyway", err)
	}
	return err
}

func renderManifest(out io.Writer, m content.Manifest, colorize bool) {
	rows := [][]string{
		{"Manifest", m.ID},
		{"Set", fmt.Sprintf("%s (%s)", m.SetName, m.SetID)},
		{"Files", strconv.Itoa(m.TotalFiles)},
		{"Estimated time", (time.Duration(m.EstimatedSeconds) * time.Second).String()},
		{"Created", m.CreatedAt.Format(time.RFC3339)},
	}
	fmt.Fprint(out, keyValueTable(rows, colorize))

	fileRows := make([][]string, 0, len(m.Files))
	for i, file := range m.Files {
		fileRows = append(fileRows, []string{
			strconv.Itoa(i + 1),
			file.Path,
			string(file.Kind),
			string(file.Complexity),
			joinOrDash(file.Dependencies),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"#", "File", "Kind", "Complexity", "After"},
		fileRows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
		colorize,
	))
	writeWarnings(out, m.Warnings)
}

func renderOrderTable(files []content.File, colorize bool) string {
	rows := make([][]string, 0, len(files))
	for i, file := range files {
		pattern := file.Pattern
		if pattern == "" {
			pattern = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			file.Name,
			rankLabel(file),
			pattern,
			string(file.Kind),
		})
	}
	return renderTable(
		[]string{"#", "File", "Sequence", "Pattern", "Kind"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
		colorize,
	)
}
