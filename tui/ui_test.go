package tui

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxserxxx/speedo/panel"
)

func TestHandleKey(t *testing.T) {
	p := panel.New(panel.Sprites{})
	_, err := p.SetMaximumValue(100)
	require.NoError(t, err)

	assert.True(t, handleKey("+", p, 100))
	assert.Equal(t, 200.0, p.MaximumValue())
	assert.True(t, handleKey("-", p, 100))
	assert.True(t, handleKey("-", p, 100))
	assert.Equal(t, 50.0, p.MaximumValue())
	assert.True(t, handleKey("r", p, 100))
	assert.Equal(t, 100.0, p.MaximumValue())
	assert.False(t, handleKey("x", p, 100))
	assert.Equal(t, 100.0, p.MaximumValue())
}

func TestHandleKeyKeepsMaximumValid(t *testing.T) {
	p := panel.New(panel.Sprites{})
	// restoring to an invalid maximum is refused and leaves the panel alone
	assert.True(t, handleKey("r", p, math.NaN()))
	assert.Equal(t, 1.0, p.MaximumValue())
}
