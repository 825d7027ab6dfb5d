package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, err
		}
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	// .env must be loaded before the environment is read
	if _, err := LoadDotEnv(projectRoot); err != nil {
		return nil, err
	}

	project, configFile, err := LoadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	sourcesDir := resolvePath(projectRoot, project.Paths.Sources)
	if rel, err := filepath.Rel(projectRoot, sourcesDir); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: [paths] sources = %q", domain.ErrSourcesOutsideRoot, project.Paths.Sources)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ConfigFile:     configFile,
		SourcesDir:     sourcesDir,
		ArtifactsDir:   resolvePath(projectRoot, project.Paths.Artifacts),
		CacheDir:       resolvePath(projectRoot, project.Paths.Cache),
		Solidity:       project.Solidity,
		Hook:           project.Hook,
		Network:        project.Network,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
	}

	// Flags and ABIEMIT_* variables override the project file
	if v.IsSet("concurrency") && v.GetInt("concurrency") > 0 {
		cfg.Hook.Concurrency = v.GetInt("concurrency")
	}
	if v.IsSet("atomic") {
		cfg.Hook.AtomicWrites = v.GetBool("atomic")
	}
	if solc := v.GetString("solc"); solc != "" {
		cfg.Solidity.Solc = solc
	}

	fields := EnvironmentFields(GenerateSigningKey)
	env, err := AssembleEnvironment(RawEnvironment(environmentViper(fields), fields), GenerateSigningKey)
	if err != nil {
		return nil, err
	}
	cfg.Environment = env

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find abiemit.toml.
// The current directory is used when no project file exists.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Tool settings use the ABIEMIT_ prefix
	v.SetEnvPrefix("ABIEMIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	if projectRoot != "" {
		v.SetDefault("project_root", projectRoot)
	}

	if cmd != nil {
		bindFlags(v, cmd.Flags())
	}

	return v
}

// bindFlags binds every flag under its snake_case key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}
