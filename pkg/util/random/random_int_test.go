package random

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomIntDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		n := GetRandomInt(6)
		assert.GreaterOrEqual(t, n, 100000)
		assert.Less(t, n, 1000000)
	}
}

func TestGetSixDigitCode(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), GetSixDigitCode())
}

func TestGetHexToken(t *testing.T) {
	a := GetHexToken(32)
	b := GetHexToken(32)
	assert.Len(t, a, 64)
	assert.Regexp(t, `^[0-9a-f]+$`, a)
	assert.NotEqual(t, a, b)
}
