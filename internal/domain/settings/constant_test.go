package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstant(t *testing.T) {
	c, err := NewConstant(" tax ", "0.10", "Sales tax rate")
	require.NoError(t, err)

	assert.Equal(t, "tax", c.Key)
	assert.Equal(t, "0.10", c.Value)
	assert.Equal(t, "Sales tax rate", c.Description)
}

func TestNewConstant_RequiresKey(t *testing.T) {
	_, err := NewConstant("  ", "1", "")
	assert.Error(t, err)
}

func TestConstant_SetValue(t *testing.T) {
	c, err := NewConstant("shipping_fee", "5.00", "")
	require.NoError(t, err)

	c.SetValue("7.50")
	assert.Equal(t, "7.50", c.Value)
}
