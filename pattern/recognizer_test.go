package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDetectPatternsEmailAddress(t *testing.T) {
	r := New("", zaptest.NewLogger(t))
	samples := []string{
		"john@example.com", "jane@test.org", "bob@clinic.net",
		"alice@hospital.edu", "charlie@medical.com",
	}
	assert.Equal(t, []string{"email_address"}, r.DetectPatterns(samples, "email_address"))
}

func TestDetectPatternsSpecificityResolution(t *testing.T) {
	r := New("", zaptest.NewLogger(t))
	samples := []string{"1234567890", "9876543210", "5555666677", "1111222233", "9999888877"}
	assert.Equal(t, []string{"npi_identifier"}, r.DetectPatterns(samples, "npi"))
}

func TestDetectPatternsRejectsSmallSample(t *testing.T) {
	r := New("", zaptest.NewLogger(t))
	assert.Empty(t, r.DetectPatterns([]string{"a@example.com", "b@example.com"}, "email_address"))
}

func TestDetectPatternsUnmatchedFieldNameStillMatchesStrongRegex(t *testing.T) {
	r := New("", zaptest.NewLogger(t))
	samples := []string{
		"john@example.com", "jane@test.org", "bob@clinic.net",
		"alice@hospital.edu", "charlie@medical.com",
	}
	got := r.DetectPatterns(samples, "contact_value")
	assert.Contains(t, got, "email_address")
}

func TestDetectPatternsTiedSpecificityIsDeterministic(t *testing.T) {
	r := New("", zaptest.NewLogger(t))
	// patient_id and provider_id share the same specificity (8) and an
	// identical regex; with no field name to disambiguate them, both
	// match purely on data shape and must tie-break the same way every
	// time regardless of map iteration order.
	samples := []string{"ABC-123", "XYZ-999", "QWE-111", "RST-222", "LMN-333"}

	var first []string
	for i := 0; i < 50; i++ {
		got := r.DetectPatterns(samples, "")
		if i == 0 {
			first = got
			require.Equal(t, []string{"patient_id", "provider_id"}, first)
			continue
		}
		assert.Equal(t, first, got)
	}
}

func TestValidateValue(t *testing.T) {
	r := New("", zaptest.NewLogger(t))
	assert.True(t, r.ValidateValue("active", "status_field"))
	assert.False(t, r.ValidateValue("deleted", "status_field"))
}

func TestReloadPatternsSwapsAtomically(t *testing.T) {
	r := New("", zaptest.NewLogger(t))
	require.NoError(t, r.ReloadPatterns())
	assert.NotEmpty(t, r.current.Load().rules)
}

func TestNewWithMissingFileDisablesDetection(t *testing.T) {
	r := New("/nonexistent/path/patterns.json", zaptest.NewLogger(t))
	assert.Empty(t, r.DetectPatterns([]string{"a", "b", "c", "d"}, "email_address"))
}
