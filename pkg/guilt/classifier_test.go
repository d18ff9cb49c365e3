package guilt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
)

func TestClassify_SplitsTextAndBinary(t *testing.T) {
	t.Parallel()

	changes := guilt.Classify([]gitcli.NumstatEntry{
		textEntry("src/z.go", 3, 1),
		binaryEntry("assets/logo.png"),
		textEntry("README.md", 0, 4),
		binaryEntry("assets/font.ttf"),
		{Additions: "-", Deletions: "0", Path: "odd.txt"},
	})

	assert.Equal(t, []string{"README.md", "odd.txt", "src/z.go"}, changes.TextPaths)
	assert.Equal(t, []string{"assets/font.ttf", "assets/logo.png"}, changes.BinaryPaths)
	assert.False(t, changes.Empty())
}

func TestClassify_Disjoint(t *testing.T) {
	t.Parallel()

	changes := guilt.Classify([]gitcli.NumstatEntry{
		textEntry("blob", 1, 1),
		binaryEntry("blob"),
		textEntry("blob", 2, 0),
	})

	assert.Empty(t, changes.TextPaths)
	assert.Equal(t, []string{"blob"}, changes.BinaryPaths)
}

func TestClassify_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, guilt.Classify(nil).Empty())
}

func TestClassifyChanges_WrapsBackendError(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.diffErr = gitcli.ErrMalformedOutput

	_, err := guilt.ClassifyChanges(context.Background(), backend, "HEAD~1", "HEAD")
	require.Error(t, err)
	assert.ErrorIs(t, err, gitcli.ErrMalformedOutput)
	assert.Contains(t, err.Error(), "HEAD~1..HEAD")
}
