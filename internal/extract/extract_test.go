// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEmptyPath(t *testing.T) {
	_, err := Text("", 0, zerolog.Nop())
	assert.Error(t, err)
}

func TestTextMissingFile(t *testing.T) {
	_, err := Text(filepath.Join(t.TempDir(), "nope.pdf"), 0, zerolog.Nop())
	assert.Error(t, err)
}

func TestTextNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := Text(path, 0, zerolog.Nop())
	assert.Error(t, err)
}
