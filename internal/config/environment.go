package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
)

// Validator coerces a raw environment value into its declared type
type Validator func(raw string) (any, error)

// Str accepts any string, including the empty string
func Str(raw string) (any, error) {
	return cast.ToStringE(raw)
}

// Num accepts base-10 integers
func Num(raw string) (any, error) {
	return cast.ToInt64E(strings.TrimSpace(raw))
}

// Bool accepts the usual true/false spellings
func Bool(raw string) (any, error) {
	return cast.ToBoolE(strings.TrimSpace(raw))
}

// URL accepts absolute URLs
func URL(raw string) (any, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("not an absolute URL")
	}
	return u.String(), nil
}

// Field declares one recognized environment variable
type Field struct {
	Name     string
	Validate Validator
	// Default produces the raw value used when the variable is absent
	Default func() (string, error)
}

// Static returns a Default that always yields value
func Static(value string) func() (string, error) {
	return func() (string, error) { return value, nil }
}

// KeyGenerator produces a fresh hex-encoded private key
type KeyGenerator func() (string, error)

// EnvironmentFields returns the variables read by AssembleEnvironment
func EnvironmentFields(keygen KeyGenerator) []Field {
	return []Field{
		{Name: config.EnvSigningKey, Validate: Str, Default: keygen},
		{Name: config.EnvRPCURL, Validate: Str, Default: Static("")},
		{Name: config.EnvVerificationKey, Validate: Str, Default: Static("")},
	}
}

// CleanEnv validates raw against fields. Absent variables take their default.
// Every invalid variable is reported in one ConfigValidationError.
func CleanEnv(raw map[string]string, fields []Field) (map[string]any, []string, error) {
	values := make(map[string]any, len(fields))
	var defaulted []string
	var problems []domain.FieldProblem

	for _, field := range fields {
		value, present := raw[field.Name]
		if !present {
			if field.Default == nil {
				problems = append(problems, domain.FieldProblem{Name: field.Name, Reason: "required but not set"})
				continue
			}
			def, err := field.Default()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to compute default for %s: %w", field.Name, err)
			}
			value = def
			defaulted = append(defaulted, field.Name)
		}

		parsed, err := field.Validate(value)
		if err != nil {
			problems = append(problems, domain.FieldProblem{Name: field.Name, Reason: err.Error()})
			continue
		}
		values[field.Name] = parsed
	}

	if len(problems) > 0 {
		return nil, nil, &domain.ConfigValidationError{Problems: problems}
	}
	return values, defaulted, nil
}

// AssembleEnvironment builds the deployment environment from raw variables.
// A missing signing key is replaced by a freshly generated one.
func AssembleEnvironment(raw map[string]string, keygen KeyGenerator) (*config.EnvironmentConfig, error) {
	if keygen == nil {
		keygen = GenerateSigningKey
	}

	values, defaulted, err := CleanEnv(raw, EnvironmentFields(keygen))
	if err != nil {
		return nil, err
	}

	return &config.EnvironmentConfig{
		SigningKey:      cast.ToString(values[config.EnvSigningKey]),
		RPCURL:          cast.ToString(values[config.EnvRPCURL]),
		VerificationKey: cast.ToString(values[config.EnvVerificationKey]),
		Defaulted:       defaulted,
	}, nil
}

// RawEnvironment collects the present values of fields through viper.
// Variables set to the empty string count as present.
func RawEnvironment(v *viper.Viper, fields []Field) map[string]string {
	raw := make(map[string]string, len(fields))
	for _, field := range fields {
		key := strings.ToLower(field.Name)
		if !v.IsSet(key) {
			continue
		}
		raw[field.Name] = v.GetString(key)
	}
	return raw
}

// environmentViper reads deployment variables under their conventional names
// only. It has no AutomaticEnv, so ABIEMIT_-prefixed copies are ignored.
func environmentViper(fields []Field) *viper.Viper {
	v := viper.New()
	bindEnvironment(v, fields)
	return v
}

// bindEnvironment registers the environment fields with viper without the ABIEMIT_ prefix
func bindEnvironment(v *viper.Viper, fields []Field) {
	v.AllowEmptyEnv(true)
	for _, field := range fields {
		_ = v.BindEnv(strings.ToLower(field.Name), field.Name)
	}
}
