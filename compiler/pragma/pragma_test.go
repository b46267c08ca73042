package pragma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("", "0.1.0"), "no pragma means any compiler")

	assert.NoError(t, Check("^0.1", "0.1.0"))
	assert.NoError(t, Check(">=0.1.0, <0.2.0", "0.1.3"))

	err := Check(">=1.0", "0.1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not satisfied")
}

func TestCheckMalformed(t *testing.T) {
	err := Check("not a constraint (", "0.1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pragma")

	err = Check("^0.1", "not a version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiler version")
}
