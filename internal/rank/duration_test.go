package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeDuration(t *testing.T) {
	tests := []struct {
		raw     string
		seconds int
		display string
	}{
		{"PT1H2M3S", 3723, "1:02:03"},
		{"PT45S", 45, "0:45"},
		{"", 0, NoDuration},
		{"PT4M13S", 253, "4:13"},
		{"PT12M", 720, "12:00"},
		{"PT2H", 7200, "2:00:00"},
		{"PT1H5S", 3605, "1:00:05"},
		{"P1DT2H3M4S", 93784, "26:03:04"},
		{"P0D", 0, "0:00"},
		{"PT", 0, "0:00"},
		{"PT0H5M", 300, "0:05:00"},
		{"P2D", 172800, "48:00:00"},
		{"PT9000000000000000H", 0, NoDuration},
		{"PT99999999999999999999S", 0, NoDuration},
		{"P", 0, NoDuration},
		{"garbage", 0, NoDuration},
		{"1:02:03", 0, NoDuration},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d := DecodeDuration(tt.raw)
			assert.Equal(t, tt.seconds, d.Seconds)
			assert.Equal(t, tt.display, d.Display)
			assert.GreaterOrEqual(t, d.Seconds, 0)
		})
	}
}

func TestClassifyDuration(t *testing.T) {
	assert.Equal(t, Long, ClassifyDuration("PT4M13S"))
	assert.Equal(t, Long, ClassifyDuration("PT1H2M3S"))
	assert.Equal(t, Short, ClassifyDuration("PT45S"))
	assert.Equal(t, Short, ClassifyDuration(""))
	// no minutes token, so the textual rule calls it short
	assert.Equal(t, Short, ClassifyDuration("PT1H5S"))
}

func TestContentTypeLabelsOrderLongFirst(t *testing.T) {
	assert.Less(t, Long.Label(), Short.Label())
}
