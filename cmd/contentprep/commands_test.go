package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"contentprep/internal/config"
	"contentprep/internal/content"
	"contentprep/internal/prep"
	"contentprep/internal/services/llm"
	"contentprep/internal/testsupport"
)

func analyzeOne(t *testing.T, env *cliTestEnv, names ...string) content.Set {
	t.Helper()
	testsupport.WriteFiles(t, env.pendingDir, names...)
	out, _, err := runCLI(t, env.configPath, "analyze", "-o", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	analyses := decodeJSON[[]prep.Analysis](t, out)
	if len(analyses) != 1 || len(analyses[0].Sets) != 1 {
		t.Fatalf("expected one folder with one set, got %+v", analyses)
	}
	return analyses[0].Sets[0]
}

func TestAnalyzeTableOutput(t *testing.T) {
	env := setupCLITestEnv(t, "")
	testsupport.WriteFiles(t, env.pendingDir, "module01.pdf", "module02.pdf", "module03.pdf", "report.pdf")

	out, _, err := runCLI(t, env.configPath, "analyze", env.pendingDir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "Module (PDF)")
	requireContains(t, out, "Standalone files (1)")
	requireContains(t, out, "report.pdf")
}

func TestManifestRequiresProceedForIncompleteSet(t *testing.T) {
	env := setupCLITestEnv(t, "")
	set := analyzeOne(t, env, "01-intro.pdf", "02-basics.pdf", "04-advanced.pdf")

	out, _, err := runCLI(t, env.configPath, "validate", set.ID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, out, "#3 (between 2 and 4)")

	_, _, err = runCLI(t, env.configPath, "manifest", set.ID)
	if err == nil {
		t.Fatal("expected incomplete set to be refused")
	}
	requireContains(t, err.Error(), "re-run with --proceed-incomplete")

	out, _, err = runCLI(t, env.configPath, "manifest", set.ID, "--proceed-incomplete", "-o", "json")
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	m := decodeJSON[content.Manifest](t, out)
	if m.TotalFiles != 3 || m.SetID != set.ID {
		t.Fatalf("unexpected manifest %+v", m)
	}
	requireContains(t, strings.Join(m.Warnings, "\n"), "missing sequence position 3")
	if got := m.Paths(); !strings.HasSuffix(got[0], "01-intro.pdf") || !strings.HasSuffix(got[2], "04-advanced.pdf") {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestSetLifecycleCommands(t *testing.T) {
	env := setupCLITestEnv(t, "")
	set := analyzeOne(t, env, "lesson1.md", "lesson2.md", "lesson3.md")

	if _, _, err := runCLI(t, env.configPath, "manifest", set.ID); err != nil {
		t.Fatalf("manifest: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "sets", "list", "--status", "processing", "-o", "json")
	if err != nil {
		t.Fatalf("sets list: %v", err)
	}
	sets := decodeJSON[[]content.Set](t, out)
	if len(sets) != 1 || sets[0].ID != set.ID {
		t.Fatalf("expected the processing set, got %+v", sets)
	}

	out, _, err = runCLI(t, env.configPath, "sets", "complete", set.ID)
	if err != nil {
		t.Fatalf("sets complete: %v", err)
	}
	requireContains(t, out, "-> complete")

	if _, _, err := runCLI(t, env.configPath, "sets", "retry", set.ID); err == nil {
		t.Fatal("expected retry of a complete set to fail")
	}

	out, _, err = runCLI(t, env.configPath, "sets", "show", set.ID)
	if err != nil {
		t.Fatalf("sets show: %v", err)
	}
	requireContains(t, out, "lesson2.md")
	requireContains(t, out, "Completed")
}

func TestSetsListRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, env.configPath, "sets", "list", "--status", "archived")
	if err == nil {
		t.Fatal("expected unknown status to fail")
	}
	requireContains(t, err.Error(), `unknown status "archived"`)
}

func TestSetsCreateManual(t *testing.T) {
	env := setupCLITestEnv(t, "")
	dir := testsupport.WriteFiles(t, filepath.Join(env.baseDir, "manual"), "zeta.pdf", "alpha.pdf")

	out, _, err := runCLI(t, env.configPath, "sets", "create", "--name", "Hand Picked",
		filepath.Join(dir, "zeta.pdf"), filepath.Join(dir, "alpha.pdf"), "-o", "json")
	if err != nil {
		t.Fatalf("sets create: %v", err)
	}
	set := decodeJSON[content.Set](t, out)
	if set.Method != content.MethodManual || len(set.Files) != 2 {
		t.Fatalf("unexpected set %+v", set)
	}
	if !strings.HasSuffix(set.Files[0].Path, "zeta.pdf") {
		t.Fatalf("manual sets keep the given order, got %v", content.Paths(set.Files))
	}

	out, _, err = runCLI(t, env.configPath, "order", set.ID)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if strings.Index(out, "zeta.pdf") > strings.Index(out, "alpha.pdf") {
		t.Fatalf("expected zeta before alpha:\n%s", out)
	}
}

func TestSweepRespectsRetention(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, env.configPath, "sweep", "--retention-days", "0")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	requireContains(t, out, "Retention disabled")

	out, _, err = runCLI(t, env.configPath, "sweep", "--retention-days", "30", "-o", "json")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	result := decodeJSON[prep.SweepResult](t, out)
	if len(result.Deleted) != 0 || result.Cutoff.IsZero() {
		t.Fatalf("unexpected sweep result %+v", result)
	}
}

func TestHealthYAML(t *testing.T) {
	env := setupCLITestEnv(t, "")
	analyzeOne(t, env, "lesson1.md", "lesson2.md")

	out, _, err := runCLI(t, env.configPath, "health", "-o", "yaml")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	var report healthReport
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if !report.Database.DatabaseExists || report.Database.SchemaVersion != 1 {
		t.Fatalf("unexpected database health %+v", report.Database)
	}
	if report.Database.Sets[content.StatusPending] != 1 {
		t.Fatalf("expected one pending set, got %v", report.Database.Sets)
	}
	if report.Classifier.Provider != "none" || !report.Classifier.Healthy {
		t.Fatalf("unexpected classifier health %+v", report.Classifier)
	}
}

func TestRejectsUnknownOutputFormat(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, env.configPath, "sets", "list", "-o", "xml")
	if err == nil {
		t.Fatal("expected unsupported format error")
	}
	requireContains(t, err.Error(), "unsupported output format")
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected existing config to be kept without --overwrite")
	}

	out, _, err = runCLI(t, target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	env := setupCLITestEnv(t, "\n[llm]\napi_key = \"sk-very-secret\"\n")

	out, _, err := runCLI(t, env.configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-very-secret") {
		t.Fatalf("api key leaked:\n%s", out)
	}
	requireContains(t, out, redacted)
	requireContains(t, out, env.configPath)
}

func TestManifestAllAndShow(t *testing.T) {
	env := setupCLITestEnv(t, "")
	testsupport.WriteFiles(t, env.pendingDir,
		"lesson1.md", "lesson2.md", "lesson3.md",
		"01-intro.pdf", "02-basics.pdf", "04-advanced.pdf",
	)
	if _, _, err := runCLI(t, env.configPath, "analyze"); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "manifest", "--all", "-o", "json")
	if err == nil {
		t.Fatal("expected the incomplete set to fail the batch")
	}
	requireContains(t, err.Error(), "1 of 2 content sets could not be planned")
	rows := decodeJSON[[]manifestOutcome](t, out)
	if len(rows) != 2 {
		t.Fatalf("expected one row per pending set, got %+v", rows)
	}
	var planned, refused manifestOutcome
	for _, row := range rows {
		if row.Error == "" {
			planned = row
		} else {
			refused = row
		}
	}
	if planned.ManifestID == "" || planned.TotalFiles != 3 {
		t.Fatalf("unexpected planned outcome %+v", planned)
	}
	requireContains(t, refused.Error, "re-run with --proceed-incomplete")

	out, _, err = runCLI(t, env.configPath, "manifest", "show", planned.SetID, "-o", "json")
	if err != nil {
		t.Fatalf("manifest show: %v", err)
	}
	if m := decodeJSON[content.Manifest](t, out); m.ID != planned.ManifestID || m.SetID != planned.SetID {
		t.Fatalf("expected the stored manifest, got %+v", m)
	}

	if _, _, err := runCLI(t, env.configPath, "manifest", "show", refused.SetID); err == nil {
		t.Fatal("expected a set without a manifest to report an error")
	}

	out, _, err = runCLI(t, env.configPath, "manifest", "--all", "--proceed-incomplete")
	if err != nil {
		t.Fatalf("manifest --all --proceed-incomplete: %v", err)
	}
	requireContains(t, out, refused.SetID)
	if strings.Contains(out, planned.SetID) {
		t.Fatalf("a set already processing must not be planned again:\n%s", out)
	}

	if _, _, err := runCLI(t, env.configPath, "manifest", "--all", planned.SetID); err == nil {
		t.Fatal("expected --all with a set id to be rejected")
	}
}

func TestOrderFlagsLowConfidenceUntilReordered(t *testing.T) {
	env := setupCLITestEnv(t, "\n[ordering]\nconfidence_threshold = 0.95\n")
	set := analyzeOne(t, env, "01-intro.pdf", "02-basics.pdf", "04-advanced.pdf")

	out, _, err := runCLI(t, env.configPath, "order", set.ID)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	requireContains(t, out, "is below 0.95")
	requireContains(t, out, "contentprep sets reorder "+set.ID)

	_, _, err = runCLI(t, env.configPath, "sets", "reorder", set.ID, "01-intro.pdf", "02-basics.pdf")
	if err == nil {
		t.Fatal("expected a partial order to be rejected")
	}
	requireContains(t, err.Error(), "missing 04-advanced.pdf")

	out, _, err = runCLI(t, env.configPath, "sets", "reorder", set.ID,
		"02-basics.pdf", "01-intro.pdf", "04-advanced.pdf", "-o", "json")
	if err != nil {
		t.Fatalf("sets reorder: %v", err)
	}
	reordered := decodeJSON[content.Set](t, out)
	if reordered.Confidence != 1 || !reordered.IsComplete || reordered.Files[0].Name != "02-basics.pdf" {
		t.Fatalf("unexpected reordered set %+v", reordered)
	}

	out, _, err = runCLI(t, env.configPath, "order", set.ID, "-o", "json")
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	report := decodeJSON[prep.OrderReport](t, out)
	if report.NeedsReview || report.Confidence != 1 {
		t.Fatalf("confirmed order should not need review: %+v", report)
	}
	if got := content.Names(report.Files); got[0] != "02-basics.pdf" || got[1] != "01-intro.pdf" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestClassifierStatusReportsEffectiveModel(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	cfg := config.Default()
	cfg.Classifier.Provider = config.ProviderOpenRouter
	cfg.LLM.APIKey = ""
	cfg.LLM.Model = ""
	status := classifierStatus(cmd, &cfg, false)
	if status.Model != llm.DefaultModel || status.Healthy {
		t.Fatalf("unexpected openrouter status %+v", status)
	}
	requireContains(t, status.Detail, "llm.api_key")

	cfg.Classifier.Provider = config.ProviderGemini
	cfg.Gemini.APIKey = "k"
	cfg.Gemini.Model = "gemini-custom"
	status = classifierStatus(cmd, &cfg, false)
	if !status.Healthy || status.Model != "gemini-custom" || status.Checked {
		t.Fatalf("unexpected gemini status %+v", status)
	}
}
