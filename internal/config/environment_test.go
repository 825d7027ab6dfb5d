package config

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/abiemit/internal/domain"
	"github.com/trebuchet-org/abiemit/internal/domain/config"
)

func fixedKey(key string) KeyGenerator {
	return func() (string, error) { return key, nil }
}

func TestAssembleEnvironment(t *testing.T) {
	t.Run("all variables set", func(t *testing.T) {
		env, err := AssembleEnvironment(map[string]string{
			config.EnvSigningKey:      "0xabc",
			config.EnvRPCURL:          "https://rpc.example",
			config.EnvVerificationKey: "ETHKEY123",
		}, fixedKey("0xgenerated"))
		require.NoError(t, err)

		assert.Equal(t, "0xabc", env.SigningKey)
		assert.Equal(t, "https://rpc.example", env.RPCURL)
		assert.Equal(t, "ETHKEY123", env.VerificationKey)
		assert.Empty(t, env.Defaulted)
		assert.False(t, env.UsesGeneratedKey())
	})

	t.Run("nothing set", func(t *testing.T) {
		env, err := AssembleEnvironment(map[string]string{}, fixedKey("0xgenerated"))
		require.NoError(t, err)

		assert.Equal(t, "0xgenerated", env.SigningKey)
		assert.Equal(t, "", env.RPCURL)
		assert.Equal(t, "", env.VerificationKey)
		assert.True(t, env.UsesGeneratedKey())
		assert.ElementsMatch(t, []string{config.EnvSigningKey, config.EnvRPCURL, config.EnvVerificationKey}, env.Defaulted)
	})

	t.Run("empty signing key is kept", func(t *testing.T) {
		generated := false
		env, err := AssembleEnvironment(map[string]string{config.EnvSigningKey: ""}, func() (string, error) {
			generated = true
			return "0xgenerated", nil
		})
		require.NoError(t, err)

		assert.Equal(t, "", env.SigningKey)
		assert.False(t, generated)
		assert.False(t, env.UsesGeneratedKey())
	})

	t.Run("key generator failure", func(t *testing.T) {
		_, err := AssembleEnvironment(map[string]string{}, func() (string, error) {
			return "", errors.New("no entropy")
		})
		assert.ErrorContains(t, err, config.EnvSigningKey)
		assert.ErrorContains(t, err, "no entropy")
	})

	t.Run("default generator yields distinct usable keys", func(t *testing.T) {
		first, err := AssembleEnvironment(map[string]string{}, nil)
		require.NoError(t, err)
		second, err := AssembleEnvironment(map[string]string{}, nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.SigningKey, second.SigningKey)
		_, err = ParseSigningKey(first.SigningKey)
		assert.NoError(t, err)
	})
}

func TestCleanEnv(t *testing.T) {
	fields := []Field{
		{Name: "PORT", Validate: Num, Default: Static("8545")},
		{Name: "VERBOSE", Validate: Bool, Default: Static("false")},
		{Name: "ENDPOINT", Validate: URL},
		{Name: "LABEL", Validate: Str, Default: Static("")},
	}

	t.Run("coerces typed values", func(t *testing.T) {
		values, defaulted, err := CleanEnv(map[string]string{
			"PORT":     " 9000 ",
			"VERBOSE":  "true",
			"ENDPOINT": "http://localhost:8545",
		}, fields)
		require.NoError(t, err)

		assert.Equal(t, int64(9000), values["PORT"])
		assert.Equal(t, true, values["VERBOSE"])
		assert.Equal(t, "http://localhost:8545", values["ENDPOINT"])
		assert.Equal(t, "", values["LABEL"])
		assert.Equal(t, []string{"LABEL"}, defaulted)
	})

	t.Run("collects every problem", func(t *testing.T) {
		_, _, err := CleanEnv(map[string]string{
			"PORT":    "eighty",
			"VERBOSE": "sometimes",
		}, fields)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigValidation)

		var cfgErr *domain.ConfigValidationError
		require.ErrorAs(t, err, &cfgErr)
		names := make([]string, 0, len(cfgErr.Problems))
		for _, p := range cfgErr.Problems {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"PORT", "VERBOSE", "ENDPOINT"}, names)
		assert.NotContains(t, err.Error(), "eighty")
	})

	t.Run("rejects relative urls", func(t *testing.T) {
		_, _, err := CleanEnv(map[string]string{"ENDPOINT": "localhost"}, fields[2:3])
		assert.ErrorIs(t, err, domain.ErrConfigValidation)
	})
}

func TestRawEnvironment(t *testing.T) {
	t.Setenv(config.EnvSigningKey, "")
	t.Setenv(config.EnvRPCURL, "https://rpc.example")
	t.Setenv(config.EnvVerificationKey, "")
	require.NoError(t, os.Unsetenv(config.EnvVerificationKey))

	v := viper.New()
	fields := EnvironmentFields(nil)
	bindEnvironment(v, fields)

	raw := RawEnvironment(v, fields)

	key, present := raw[config.EnvSigningKey]
	assert.True(t, present, "empty variables count as set")
	assert.Equal(t, "", key)
	assert.Equal(t, "https://rpc.example", raw[config.EnvRPCURL])
	_, present = raw[config.EnvVerificationKey]
	assert.False(t, present)
}

func TestSigningAddress(t *testing.T) {
	addr, err := SigningAddress("0x289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032")
	require.NoError(t, err)
	assert.Equal(t, "0x970e8128ab834e8eac17ab8e3812f010678cf791", strings.ToLower(addr.Hex()))

	// The 0x prefix is optional
	bare, err := SigningAddress("289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032")
	require.NoError(t, err)
	assert.Equal(t, addr, bare)

	_, err = SigningAddress("")
	assert.ErrorIs(t, err, domain.ErrInvalidSigningKey)

	_, err = SigningAddress("0xnothex")
	assert.ErrorIs(t, err, domain.ErrInvalidSigningKey)
}
