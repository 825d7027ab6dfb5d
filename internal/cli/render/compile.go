package render

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// CompileRenderer renders compile results
type CompileRenderer struct {
	out         io.Writer
	errOut      io.Writer
	projectRoot string
}

// NewCompileRenderer creates a new compile renderer
func NewCompileRenderer(out, errOut io.Writer, projectRoot string) *CompileRenderer {
	return &CompileRenderer{
		out:         out,
		errOut:      errOut,
		projectRoot: projectRoot,
	}
}

// RenderWarnings prints compiler warnings to stderr and nothing else
func (r *CompileRenderer) RenderWarnings(result *usecase.CompileContractsResult) error {
	if result.Output == nil {
		return nil
	}
	for _, w := range result.Output.Warnings {
		fmt.Fprintln(r.errOut, FormatWarning(w.String()))
	}
	return nil
}

// Render prints a table of generated declarations
func (r *CompileRenderer) Render(result *usecase.CompileContractsResult) error {
	if err := r.RenderWarnings(result); err != nil {
		return err
	}

	if len(result.Declarations) == 0 {
		fmt.Fprintln(r.out, "No Solidity sources found")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	bold := color.New(color.Bold)
	t.AppendHeader(table.Row{
		bold.Sprint("SOURCE"),
		bold.Sprint("CONTRACT"),
		bold.Sprint("FUNCTIONS"),
		bold.Sprint("EVENTS"),
		bold.Sprint("ERRORS"),
		bold.Sprint("DECLARATION"),
	})
	for _, d := range result.Declarations {
		t.AppendRow(table.Row{
			d.SourceID,
			color.New(color.FgGreen).Sprint(d.ContractName),
			strconv.Itoa(d.Functions),
			strconv.Itoa(d.Events),
			strconv.Itoa(d.Errors),
			r.relative(d.Path),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	version := ""
	if result.Output != nil && result.Output.SolcVersion != "" {
		version = fmt.Sprintf(" with solc %s", result.Output.SolcVersion)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Generated %d declaration(s)%s in %s",
		len(result.Declarations), version, result.Duration.Round(time.Millisecond))))
	return nil
}

type compileJSON struct {
	SolcVersion  string            `json:"solcVersion,omitempty"`
	Artifacts    int               `json:"artifacts"`
	Warnings     []string          `json:"warnings,omitempty"`
	Declarations []declarationJSON `json:"declarations"`
	DurationMs   int64             `json:"durationMs"`
}

type declarationJSON struct {
	Source    string `json:"source"`
	Contract  string `json:"contract"`
	Path      string `json:"path"`
	Functions int    `json:"functions"`
	Events    int    `json:"events"`
	Errors    int    `json:"errors"`
}

// RenderJSON prints the result as JSON
func (r *CompileRenderer) RenderJSON(result *usecase.CompileContractsResult) error {
	output := compileJSON{
		Declarations: make([]declarationJSON, 0, len(result.Declarations)),
		DurationMs:   result.Duration.Milliseconds(),
	}
	if result.Output != nil {
		output.SolcVersion = result.Output.SolcVersion
		output.Artifacts = len(result.Output.Artifacts)
		for _, w := range result.Output.Warnings {
			output.Warnings = append(output.Warnings, w.String())
		}
	}
	for _, d := range result.Declarations {
		output.Declarations = append(output.Declarations, declarationJSON{
			Source:    d.SourceID,
			Contract:  d.ContractName,
			Path:      r.relative(d.Path),
			Functions: d.Functions,
			Events:    d.Events,
			Errors:    d.Errors,
		})
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}

// relative returns path relative to the project root, for display
func (r *CompileRenderer) relative(path string) string {
	if r.projectRoot == "" {
		return path
	}
	rel, err := filepath.Rel(r.projectRoot, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
