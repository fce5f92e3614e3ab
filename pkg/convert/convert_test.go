package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrTo_Int(t *testing.T) {
	v, err := StrTo(" 24 ").Int()
	assert.NoError(t, err)
	assert.Equal(t, 24, v)

	_, err = StrTo("large").Int()
	assert.Error(t, err)
	assert.Equal(t, 0, StrTo("large").MustInt())
}
