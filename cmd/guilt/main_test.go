package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/guilt/pkg/version"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := versionCmd()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		"guilt "+version.Version+" (commit: "+version.Commit+", built: "+version.Date+")\n",
		out.String())
}
