package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthloop/wealthloop_backend/utils"
)

func TestGenerateUserReferralCode(t *testing.T) {
	code, err := utils.GenerateUserReferralCode()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "USR-"))
	suffix := strings.TrimPrefix(code, "USR-")
	assert.Len(t, suffix, 6)
	for _, r := range suffix {
		valid := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, valid, "unexpected character %q in code %s", r, code)
	}
}

func TestGenerateReferralCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := utils.GenerateUserReferralCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
