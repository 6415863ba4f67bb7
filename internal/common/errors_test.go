package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("reference database missing", ErrMissingConfig)

	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "reference database missing")

	bare := NewUserError("just a message", nil)
	assert.Equal(t, "just a message", bare.Error())
}

func TestIsInfrastructure(t *testing.T) {
	assert.True(t, IsInfrastructure(fmt.Errorf("listing vehicles: %w", ErrRefDataUnavailable)))
	assert.True(t, IsInfrastructure(ErrStoreUnavailable))
	assert.False(t, IsInfrastructure(ErrParseFailed))
	assert.False(t, IsInfrastructure(errors.New("some other error")))
}
