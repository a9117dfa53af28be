package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, NameRegular, Classify("ORDERS.IN"))
	assert.Equal(t, NameSystem, Classify("SYSTEM.DEAD.LETTER.QUEUE"))
	assert.Equal(t, NameSystemAdmin, Classify("SYSTEM.ADMIN.COMMAND.QUEUE"))

	// Prefix match only, no word boundary: SYSTEM.ADMINX still counts as
	// admin, SYSTEMX does not count as system.
	assert.Equal(t, NameSystemAdmin, Classify("SYSTEM.ADMINISTRATION.Q"))
	assert.Equal(t, NameRegular, Classify("SYSTEMX.QUEUE"))
}

// The two policies built on Classify intentionally disagree on the admin
// sub-prefix: admin objects are exempt from thresholds AND visible.
func TestClassifyPolicyAsymmetry(t *testing.T) {
	admin := Classify("SYSTEM.ADMIN.COMMAND.QUEUE")
	assert.True(t, admin.SystemOwned())
	assert.True(t, admin.Visible())

	system := Classify("SYSTEM.DEAD.LETTER.QUEUE")
	assert.True(t, system.SystemOwned())
	assert.False(t, system.Visible())

	regular := Classify("ORDERS.IN")
	assert.False(t, regular.SystemOwned())
	assert.True(t, regular.Visible())
}

func TestDepthPercent(t *testing.T) {
	q := QueueSnapshot{Depth: 950, MaxDepth: 1000}
	assert.InDelta(t, 95.0, q.DepthPercent(), 0.001)

	// No division by an unset max depth.
	q = QueueSnapshot{Depth: 42, MaxDepth: 0}
	assert.Zero(t, q.DepthPercent())
}

func TestParseSeverity(t *testing.T) {
	for _, valid := range []string{"OK", "WARNING", "CRITICAL"} {
		sev, err := ParseSeverity(valid)
		assert.NoError(t, err)
		assert.Equal(t, Severity(valid), sev)
	}

	// UNKNOWN is runtime-only, not operator-assignable.
	_, err := ParseSeverity("UNKNOWN")
	assert.Error(t, err)
	_, err = ParseSeverity("warning")
	assert.Error(t, err)
}

func TestCheckResultRecord(t *testing.T) {
	res := NewCheckResult()
	assert.Equal(t, SeverityOK, res.Severity)
	assert.Empty(t, res.Messages)

	res.Record(SeverityCritical, "first")
	res.Record(SeverityWarning, "second")

	// Overwrite severity, append messages.
	assert.Equal(t, SeverityWarning, res.Severity)
	assert.Equal(t, []string{"first", "second"}, res.Messages)
}
