package trailhead_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
)

func TestRequestIDContext(t *testing.T) {
	// Arrange
	ctx := context.Background()

	// Act + Assert
	require.Zero(t, trailhead.RequestIDFromContext(ctx))

	// Act
	ctx = trailhead.NewRequestIDContext(ctx, "abc-123")

	// Assert
	require.Equal(t, "abc-123", trailhead.RequestIDFromContext(ctx))
}

func TestKeyString(t *testing.T) {
	require.Equal(t, "trailhead context key: RequestIDKey", trailhead.RequestIDKey.String())
}
