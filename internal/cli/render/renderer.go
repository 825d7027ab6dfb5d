package render

import "github.com/trebuchet-org/abiemit/internal/usecase"

// Renderer renders a use case result
type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[*usecase.CompileContractsResult] = (*CompileRenderer)(nil)
	_ Renderer[*usecase.ShowEnvironmentResult]  = (*EnvRenderer)(nil)
	_ Renderer[*usecase.DescribeNetworkResult]  = (*NetworkRenderer)(nil)
)
