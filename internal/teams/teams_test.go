package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	d := NBA()
	tests := map[string]string{
		"GSW":  "GS",
		"nop":  "NO",
		"NYK":  "NY",
		"SAS":  "SA",
		"UTA":  "UTAH",
		"WAS":  "WSH",
		"BOS":  "BOS",
		" lal": "LAL",
	}
	for in, want := range tests {
		assert.Equal(t, want, d.Normalize(in), in)
	}
}

func TestID(t *testing.T) {
	d := NBA()

	id, ok := d.ID("GSW")
	assert.True(t, ok)
	assert.Equal(t, 1610612744, id)

	_, ok = d.ID("SEA")
	assert.False(t, ok)

	assert.Len(t, d.Teams(), 30)
}
