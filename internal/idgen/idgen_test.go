package idgen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentPattern = regexp.MustCompile(`^PROD-20240815-[A-Z2-9]{4}$`)

func fixedClock() time.Time {
	return time.Date(2024, 8, 15, 9, 30, 0, 0, time.UTC)
}

func TestGenerator_Document(t *testing.T) {
	gen, err := New(1)
	require.NoError(t, err)
	gen.WithClock(fixedClock).WithSeed(42)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := gen.Document(PrefixReport)
		assert.Regexp(t, documentPattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerator_EntryIDIncreases(t *testing.T) {
	gen, err := New(3)
	require.NoError(t, err)

	first := gen.EntryID()
	second := gen.EntryID()
	assert.Greater(t, second, first)
}

func TestNew_InvalidNode(t *testing.T) {
	_, err := New(5000)
	assert.Error(t, err)
}

func TestReportIDForRequest(t *testing.T) {
	assert.Equal(t, "PROD-REQ-20240815-K3F9", ReportIDForRequest("REQ-20240815-K3F9"))
}
