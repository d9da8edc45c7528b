package shared

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAssets(t *testing.T) {
	fsys := fstest.MapFS{
		"a.css": {Data: []byte("a{}")},
		"b.css": {Data: []byte("b{}")},
	}

	got, err := ReadAssets(fsys, "a.css", "b.css")
	require.NoError(t, err)
	assert.Equal(t, "a{}\nb{}", got)

	_, err = ReadAssets(fsys, "a.css", "missing.css")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asset missing.css")
}
