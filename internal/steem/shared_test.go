package steem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySetOnce(t *testing.T) {
	var r Registry

	_, err := r.Get()
	assert.ErrorIs(t, err, ErrSharedNotSet)

	first := New(Options{Nodes: []string{"http://first"}})
	require.NoError(t, r.Set(first))

	got, err := r.Get()
	require.NoError(t, err)
	assert.Same(t, first, got)

	err = r.Set(New(Options{Nodes: []string{"http://second"}}))
	assert.ErrorIs(t, err, ErrSharedAlreadySet)

	got, err = r.Get()
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestRegistryRejectsNil(t *testing.T) {
	var r Registry
	assert.ErrorIs(t, r.Set(nil), ErrNilClient)
}
