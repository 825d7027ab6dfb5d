package app

import (
	"github.com/trebuchet-org/abiemit/internal/domain/config"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	CompileContracts *usecase.CompileContracts
	ShowEnvironment  *usecase.ShowEnvironment
	DescribeNetwork  *usecase.DescribeNetwork
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	compileContracts *usecase.CompileContracts,
	showEnvironment *usecase.ShowEnvironment,
	describeNetwork *usecase.DescribeNetwork,
) (*App, error) {
	return &App{
		Config:           cfg,
		CompileContracts: compileContracts,
		ShowEnvironment:  showEnvironment,
		DescribeNetwork:  describeNetwork,
	}, nil
}
