package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutlist/internal/logging"
	"github.com/piwi3910/cutlist/internal/model"
	"github.com/piwi3910/cutlist/internal/project"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	opts := &Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.json"),
		LogLevel:   logging.LevelInfo,
	}
	cmd := newRootCommand(opts, logging.Discard())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeProject(t *testing.T, p model.Project) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, project.Save(path, p))
	return path
}

func tableProject() model.Project {
	kerf := 0.0625
	p := model.NewProject()
	p.Name = "Side Table"
	p.ModifiedAt = "2024-03-01T12:00:00Z"
	p.KerfWidth = &kerf
	p.Stocks = []model.Stock{
		{ID: "oak", Name: "Red Oak 4/4", Length: 96, Width: 8, Thickness: 1,
			PricingUnit: model.PricePerBoardFoot, PricePerUnit: 7.5},
	}
	p.Parts = []model.Part{
		{ID: "top", Name: "Top", Length: 24, Width: 18, Thickness: 1, StockID: "oak", GlueUpPanel: true},
		{ID: "leg", Name: "Leg", Length: 28, Width: 2, Thickness: 1, StockID: "oak", GrainSensitive: true},
		{ID: "apron", Name: "Apron", Length: 20, Width: 4, Thickness: 1, StockID: "oak"},
	}
	return p
}

func TestGenerate_StdoutJSON(t *testing.T) {
	path := writeProject(t, tableProject())

	stdout, _, err := runCLI(t, "generate", "-f", path)
	require.NoError(t, err)

	var cl model.CutList
	require.NoError(t, json.Unmarshal([]byte(stdout), &cl))
	assert.Equal(t, 0.0625, cl.KerfWidth, "project kerf applies when no flag is given")
	assert.Equal(t, 0.15, cl.OverageFactor, "config default applies when the project has none")
	assert.Equal(t, "2024-03-01T12:00:00Z", cl.ProjectModifiedAt)
	assert.NotEmpty(t, cl.StockBoards)
	assert.Empty(t, cl.SkippedParts)
	assert.Equal(t, 3, cl.Statistics.TotalParts)
	// Top becomes 3 glue-up strips, plus one instruction each for leg and apron.
	assert.Len(t, cl.Instructions, 5)
}

func TestGenerate_FlagOverrides(t *testing.T) {
	path := writeProject(t, tableProject())

	stdout, _, err := runCLI(t, "generate", "-f", path, "--kerf", "0", "--overage", "0.3")
	require.NoError(t, err)

	var cl model.CutList
	require.NoError(t, json.Unmarshal([]byte(stdout), &cl))
	assert.Equal(t, 0.0, cl.KerfWidth)
	assert.Equal(t, 0.3, cl.OverageFactor)
}

func TestGenerate_RefusesValidationErrors(t *testing.T) {
	p := tableProject()
	p.Parts = append(p.Parts, model.Part{ID: "x", Name: "Orphan", Length: 10, Width: 2, Thickness: 1, StockID: "walnut"})
	path := writeProject(t, p)

	stdout, stderr, err := runCLI(t, "generate", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--bypass")
	assert.Contains(t, stderr, "unknown_stock")
	assert.Empty(t, stdout)

	stdout, _, err = runCLI(t, "generate", "-f", path, "--bypass")
	require.NoError(t, err)

	var cl model.CutList
	require.NoError(t, json.Unmarshal([]byte(stdout), &cl))
	require.Len(t, cl.BypassedIssues, 1)
	assert.Equal(t, model.IssueUnknownStock, cl.BypassedIssues[0].Code)
	assert.Equal(t, 3, cl.Statistics.TotalParts, "orphan part is excluded")
}

func TestGenerate_WritesFiles(t *testing.T) {
	path := writeProject(t, tableProject())
	dir := t.TempDir()
	out := filepath.Join(dir, "cutlist.json")
	csvPath := filepath.Join(dir, "cuts.csv")
	xlsxPath := filepath.Join(dir, "shopping.xlsx")
	pdfPath := filepath.Join(dir, "report.pdf")
	labelsPath := filepath.Join(dir, "labels.pdf")

	stdout, _, err := runCLI(t, "generate", "-f", path, "-o", out,
		"--csv", csvPath, "--xlsx", xlsxPath, "--pdf", pdfPath, "--labels", labelsPath)
	require.NoError(t, err)
	assert.Empty(t, stdout, "cut list goes to the output file")

	cl, err := project.LoadCutList(out)
	require.NoError(t, err)
	assert.NotEmpty(t, cl.StockBoards)

	for _, p := range []string{csvPath, xlsxPath, pdfPath, labelsPath} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, info.Size(), p)
	}
}

func TestGenerate_MissingFileFlag(t *testing.T) {
	_, _, err := runCLI(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestCompare_JSON(t *testing.T) {
	path := writeProject(t, tableProject())

	stdout, _, err := runCLI(t, "compare", "-f", path, "--json")
	require.NoError(t, err)

	var rows []comparisonRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "Current", rows[0].Scenario)
	assert.Equal(t, 0.0625, rows[0].KerfWidth)
	assert.Equal(t, "Zero kerf", rows[2].Scenario)
	assert.Equal(t, "No overage", rows[3].Scenario)
	assert.Equal(t, 0.0, rows[3].OverageFactor)
}

func TestCompare_Table(t *testing.T) {
	path := writeProject(t, tableProject())

	stdout, _, err := runCLI(t, "compare", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SCENARIO")
	assert.Contains(t, stdout, "Current")
}

func TestEstimate_JSON(t *testing.T) {
	path := writeProject(t, tableProject())

	stdout, _, err := runCLI(t, "estimate", "-f", path, "--json")
	require.NoError(t, err)

	var ests []model.PurchaseEstimate
	require.NoError(t, json.Unmarshal([]byte(stdout), &ests))
	require.Len(t, ests, 1)
	e := ests[0]
	assert.Equal(t, "oak", e.StockID)
	// Three parts padded by the project's 1/16" kerf on both axes.
	assert.InDelta(t, 24.0625*18.0625+28.0625*2.0625+20.0625*4.0625, e.TotalPartArea, 1e-9)
	assert.Equal(t, 1, e.BoardsNeededMin)
	assert.Equal(t, 2, e.BoardsWithOverage, "15% config overage rounds one board up to two")
	assert.InDelta(t, 80.0, e.EstimatedCost, 1e-9)

	stdout, _, err = runCLI(t, "estimate", "-f", path, "--json", "--overage", "0")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &ests))
	require.Len(t, ests, 1)
	assert.Equal(t, 1, ests[0].BoardsWithOverage)
}

func TestEstimate_Table(t *testing.T) {
	path := writeProject(t, tableProject())

	stdout, _, err := runCLI(t, "estimate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "TO BUY")
	assert.Contains(t, stdout, "Red Oak 4/4")
	assert.Contains(t, stdout, "Total")
}

func TestExport_FromSavedCutList(t *testing.T) {
	p := tableProject()
	path := writeProject(t, p)
	dir := t.TempDir()
	out := filepath.Join(dir, "cutlist.json")

	_, _, err := runCLI(t, "generate", "-f", path, "-o", out)
	require.NoError(t, err)

	csvPath := filepath.Join(dir, "cuts.csv")
	pdfPath := filepath.Join(dir, "report.pdf")
	_, stderr, err := runCLI(t, "export", "-i", out, "-f", path, "--csv", csvPath, "--pdf", pdfPath)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "project changed")
	for _, f := range []string{csvPath, pdfPath} {
		info, err := os.Stat(f)
		require.NoError(t, err, f)
		assert.Positive(t, info.Size(), f)
	}

	p.ModifiedAt = "2024-04-01T09:00:00Z"
	require.NoError(t, project.Save(path, p))
	_, stderr, err = runCLI(t, "export", "-i", out, "-f", path, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "project changed since the cut list was generated")
}

func TestExport_RequiresTarget(t *testing.T) {
	_, _, err := runCLI(t, "export", "-i", "cutlist.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to export")

	_, _, err = runCLI(t, "export", "-i", filepath.Join(t.TempDir(), "missing.json"), "--csv", "out.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read cut list")
}

func TestImport_CSVCreatesProject(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "parts.csv")
	require.NoError(t, os.WriteFile(src, []byte("Name,Length,Width,Qty\nShelf,30,10,2\nDivider,12,10,1\n"), 0644))
	out := filepath.Join(dir, "bookcase.yaml")

	_, _, err := runCLI(t, "import", src, "--stock", "ply", "--thickness", "0.75", "-o", out)
	require.NoError(t, err)

	p, err := project.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "bookcase", p.Name)
	require.Len(t, p.Parts, 3)
	for _, part := range p.Parts {
		assert.Equal(t, "ply", part.StockID)
		assert.Equal(t, 0.75, part.Thickness)
	}

	// Importing again appends and keeps a backup of the previous file.
	_, _, err = runCLI(t, "import", src, "--stock", "ply", "-o", out)
	require.NoError(t, err)
	p, err = project.Load(out)
	require.NoError(t, err)
	assert.Len(t, p.Parts, 6)

	backups, err := filepath.Glob(filepath.Join(dir, "bookcase.bak-*.yaml"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	old, err := project.Load(backups[0])
	require.NoError(t, err)
	assert.Len(t, old.Parts, 3)
}

func TestImport_WarnsOnUnknownStock(t *testing.T) {
	out := writeProject(t, tableProject())
	src := filepath.Join(t.TempDir(), "parts.csv")
	require.NoError(t, os.WriteFile(src, []byte("Name,Length,Width,Stock\nShelf,30,10,oak\nPanel,20,10,walnut\nDoor,20,10,walnut\n"), 0644))

	_, stderr, err := runCLI(t, "import", src, "--stock", "oak", "-o", out, "--no-backup")
	require.NoError(t, err)
	assert.Contains(t, stderr, "stock not defined in project")
	assert.Contains(t, stderr, "walnut")
	assert.Equal(t, 1, strings.Count(stderr, "stock not defined in project"), "one warning per missing stock")

	p, err := project.Load(out)
	require.NoError(t, err)
	assert.Len(t, p.Parts, 6, "parts are appended even when their stock is missing")
}

func TestImport_UnsupportedFormat(t *testing.T) {
	_, _, err := runCLI(t, "import", "parts.pdf", "--stock", "ply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported import format")
}

func TestValidate(t *testing.T) {
	good := writeProject(t, tableProject())
	stdout, _, err := runCLI(t, "validate", "-f", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No issues found.")

	p := tableProject()
	p.Parts = append(p.Parts, model.Part{ID: "big", Name: "Huge", Length: 120, Width: 2, Thickness: 1, StockID: "oak"})
	bad := writeProject(t, p)
	stdout, _, err = runCLI(t, "validate", "-f", bad)
	require.Error(t, err)
	assert.Contains(t, stdout, model.IssuePartTooLarge)
	assert.Contains(t, stdout, "Huge")
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))

	l := logging.Discard()
	ctx := context.WithValue(context.Background(), loggerKey{}, l)
	assert.Same(t, l, LoggerFromContext(ctx))
}

func TestResolveConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("CUTLIST_OVERAGE_FACTOR", "0.25")
	path := writeProject(t, tableProject())

	stdout, _, err := runCLI(t, "generate", "-f", path)
	require.NoError(t, err)

	var cl model.CutList
	require.NoError(t, json.Unmarshal([]byte(stdout), &cl))
	assert.Equal(t, 0.25, cl.OverageFactor)
}
