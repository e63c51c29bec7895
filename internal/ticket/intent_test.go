package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	yes := []string{
		"where is my ticket?",
		"Can the HELPDESK reset my password",
		"status of INC-12345",
		"what about 4567",
		"tck_001 please",
	}
	for _, s := range yes {
		assert.True(t, DetectIntent(s), s)
	}
	no := []string{"find me a python mentor", "book 2 sessions", "room 123"}
	for _, s := range no {
		assert.False(t, DetectIntent(s), s)
	}
}

func TestExtractID(t *testing.T) {
	assert.Equal(t, "12345", ExtractID("status of INC-12345 and 9999"))
	assert.Equal(t, "001", ExtractID("HR_001"))
	assert.Equal(t, "4567", ExtractID("ticket 4567"))
	assert.Equal(t, "", ExtractID("ticket 12"))
}

func TestParseRaise(t *testing.T) {
	issue, ok := ParseRaise("Raise a ticket: laptop will not boot")
	assert.True(t, ok)
	assert.Equal(t, "laptop will not boot", issue)

	issue, ok = ParseRaise("raise ticket")
	assert.True(t, ok)
	assert.Empty(t, issue)

	_, ok = ParseRaise("please raise the issue")
	assert.False(t, ok)
}
