package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "feedbackctl version "+Version+"\n", out.String())
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	cmd := rootCmd()

	for _, name := range []string{"migrate", "seed", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	seed, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seed.Flags().Lookup("password"))
}

func TestSeedData_ManagerAndTeam(t *testing.T) {
	assert.True(t, seedManager.role.Valid())
	for _, u := range seedEmployees {
		assert.Equal(t, "employee", string(u.role))
		assert.NotEqual(t, seedManager.email, u.email)
	}
	assert.NotEmpty(t, seedTags)
}
