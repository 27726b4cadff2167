package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMalformedDSN(t *testing.T) {
	_, err := New(context.Background(), "://not-a-dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: parse dsn")
}
