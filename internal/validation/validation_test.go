package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneValid(t *testing.T) {
	assert.True(t, PhoneValid("9876543210"))
	assert.False(t, PhoneValid("98765"))
	assert.False(t, PhoneValid("98765432101"))
	assert.False(t, PhoneValid("98765x3210"))
	assert.False(t, PhoneValid(""))
}

func TestRegister(t *testing.T) {
	assert.NoError(t, Register())
}
