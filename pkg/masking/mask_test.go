package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPan(t *testing.T) {
	assert.Equal(t, "411111******1234", MaskPan("411111111234"))
	assert.Equal(t, "411111******1111", MaskPan("4111111111111111"))

	// Short or absent values collapse to a constant placeholder.
	assert.Equal(t, "****", MaskPan(""))
	assert.Equal(t, "****", MaskPan("123456789"))
}

func TestMaskPan_KeepsFirstSixAndLastFour(t *testing.T) {
	masked := MaskPan("4111111112345678901")
	assert.Equal(t, "411111", masked[:6])
	assert.Equal(t, "8901", masked[len(masked)-4:])
	assert.Equal(t, "******", masked[6:len(masked)-4])
}

func TestMaskCvv(t *testing.T) {
	assert.Equal(t, "***", MaskCvv("123"))
	assert.Equal(t, "****", MaskCvv("1234"))
	assert.Equal(t, "***", MaskCvv(""))
}
