package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 2.1, RoundWithTwoDecimalPlace(2.104))
	assert.Equal(t, 2.11, RoundWithTwoDecimalPlace(2.105))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
}

func TestFormatCPM(t *testing.T) {
	assert.Equal(t, "2.10", FormatCPM(2.1))
	assert.Equal(t, "2.11", FormatCPM(2.105))
	assert.Equal(t, "500.00", FormatCPM(500))
	assert.Equal(t, "0.00", FormatCPM(0))
}
