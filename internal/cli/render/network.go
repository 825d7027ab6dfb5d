package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/abiemit/internal/usecase"
	"gopkg.in/yaml.v3"
)

// NetworkRenderer renders the deployment network profile
type NetworkRenderer struct {
	out io.Writer
}

// NewNetworkRenderer creates a new network renderer
func NewNetworkRenderer(out io.Writer) *NetworkRenderer {
	return &NetworkRenderer{out: out}
}

// Render prints the profile in human-readable form
func (r *NetworkRenderer) Render(result *usecase.DescribeNetworkResult) error {
	p := result.Profile
	label := color.New(color.Bold)

	fmt.Fprintf(r.out, "🌐 Network %s\n", color.New(color.FgCyan, color.Bold).Sprint(p.Name))
	fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("RPC URL: "), orNotSet(p.URL))

	deployer := p.Deployer
	if p.Ephemeral {
		deployer += color.New(color.FgYellow).Sprint(" (ephemeral)")
	}
	fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Deployer:"), deployer)

	explorerKey := color.New(color.FgGreen).Sprint("configured")
	if !p.Explorer.APIKeySet {
		explorerKey = orNotSet("")
	}
	if p.Explorer.URL != "" {
		fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Explorer:"), p.Explorer.URL)
	}
	fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("API key: "), explorerKey)

	switch {
	case result.ProbeError != nil:
		fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Chain ID:"), color.New(color.FgRed).Sprintf("unreachable (%v)", result.ProbeError))
	case p.ChainID != 0:
		fmt.Fprintf(r.out, "  %s %d\n", label.Sprint("Chain ID:"), p.ChainID)
	}
	return nil
}

type networkOutput struct {
	Profile    any    `json:"profile" yaml:"profile"`
	ProbeError string `json:"probeError,omitempty" yaml:"probeError,omitempty"`
}

func newNetworkOutput(result *usecase.DescribeNetworkResult) networkOutput {
	out := networkOutput{Profile: result.Profile}
	if result.ProbeError != nil {
		out.ProbeError = result.ProbeError.Error()
	}
	return out
}

// RenderJSON prints the profile as JSON. Signing keys are never included.
func (r *NetworkRenderer) RenderJSON(result *usecase.DescribeNetworkResult) error {
	data, err := json.MarshalIndent(newNetworkOutput(result), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}

// RenderYAML prints the profile as YAML. Signing keys are never included.
func (r *NetworkRenderer) RenderYAML(result *usecase.DescribeNetworkResult) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(newNetworkOutput(result)); err != nil {
		return err
	}
	return enc.Close()
}
