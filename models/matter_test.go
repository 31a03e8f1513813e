package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBates(t *testing.T) {
	assert.Equal(t, "VQ-000012", FormatBates("VQ", 12))
	assert.Equal(t, "VQ-000001", FormatBates("VQ", 1))
	assert.Equal(t, "ACME-999999", FormatBates("ACME", 999999))
	// Values past six digits widen rather than truncate.
	assert.Equal(t, "VQ-1000000", FormatBates("VQ", 1000000))
}

func TestParseBatesRoundTrip(t *testing.T) {
	for _, n := range []int64{1, 12, 999, 999999} {
		formatted := FormatBates("VQ", n)
		prefix, parsed, err := ParseBates(formatted)
		require.NoError(t, err, formatted)
		assert.Equal(t, "VQ", prefix)
		assert.Equal(t, n, parsed)
	}
}

func TestParseBatesRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "VQ", "VQ-", "vq-000001", "VQ-12", "V-000001", "VQ_000001"} {
		_, _, err := ParseBates(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidBatesPrefix(t *testing.T) {
	for _, good := range []string{"VQ", "AB", "ABCDEF", "TLS"} {
		assert.True(t, ValidBatesPrefix(good), good)
	}
	for _, bad := range []string{"", "A", "abcdef", "ABCDEFG", "A1", "vQ", "A-B"} {
		assert.False(t, ValidBatesPrefix(bad), bad)
	}
}

func TestValidClassificationKind(t *testing.T) {
	for _, k := range ClassificationKinds {
		assert.True(t, ValidClassificationKind(k.Name))
	}
	assert.False(t, ValidClassificationKind("Lukewarm Document"))
	assert.False(t, ValidClassificationKind(""))
}
