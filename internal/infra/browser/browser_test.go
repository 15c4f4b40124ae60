package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &Config{Backend: "selenium"}, nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestQuadCenter(t *testing.T) {
	x, y := quadCenter([]float64{10, 20, 30, 20, 30, 40, 10, 40})
	assert.InDelta(t, 20, x, 1e-9)
	assert.InDelta(t, 30, y, 1e-9)
}

func TestLocationScript(t *testing.T) {
	assert.Equal(t, `window.location.href = "https://example.com/a.pdf?x=\"1\"";`, locationScript(`https://example.com/a.pdf?x="1"`))
}
