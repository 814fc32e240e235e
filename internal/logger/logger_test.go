package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_NotNil(t *testing.T) {
	log := NewLogger("test-role")
	require.NotNil(t, log)
}

func TestNop_DiscardsOutput(t *testing.T) {
	log := Nop()
	require.NotNil(t, log)

	assert.NotPanics(t, func() {
		log.Info().Str("key", "value").Msg("should go nowhere")
	})
}

func TestGetChildLogger_IndependentFromParent(t *testing.T) {
	parent := Nop()
	child := parent.GetChildLogger()

	require.NotNil(t, child)
	assert.NotSame(t, parent, child)
}

func TestFromContext_NoLoggerAttached_ReturnsNonNil(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
}

func TestFromContext_RoundTrip(t *testing.T) {
	parent := Nop()
	ctx := parent.WithContext(context.Background())

	got := FromContext(ctx)
	require.NotNil(t, got)
}

func TestFromRequest_ReturnsNonNil(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	log := FromRequest(r)
	require.NotNil(t, log)
}
