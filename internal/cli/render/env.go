package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// EnvRenderer renders the assembled environment
type EnvRenderer struct {
	out io.Writer
}

// NewEnvRenderer creates a new environment renderer
func NewEnvRenderer(out io.Writer) *EnvRenderer {
	return &EnvRenderer{out: out}
}

// Render prints one line per variable with where its value came from
func (r *EnvRenderer) Render(result *usecase.ShowEnvironmentResult) error {
	fmt.Fprintln(r.out, "🔧 Deployment environment:")
	for _, v := range result.Variables {
		value := orNotSet(v.Value)
		source := color.New(color.FgGreen).Sprintf("%-9s", "set")
		switch {
		case v.Name == config.EnvSigningKey && result.GeneratedKey:
			value = color.New(color.Faint).Sprint("(generated for this run)")
			source = color.New(color.FgYellow).Sprintf("%-9s", "generated")
		case v.Defaulted:
			source = color.New(color.FgYellow).Sprintf("%-9s", "default")
		}
		fmt.Fprintf(r.out, "  %-28s %s %s\n", v.Name, source, value)
	}

	if result.GeneratedKey {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning("No signing key configured; deployments use a throwaway key that changes every run"))
	}
	return nil
}
