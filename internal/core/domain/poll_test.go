package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

func TestMarkers(t *testing.T) {
	for i := 1; i <= domain.OptionCount; i++ {
		assert.Equal(t, i, domain.IndexForMarker(domain.MarkerFor(i)))
	}
	assert.Len(t, domain.Markers(), domain.OptionCount)

	assert.Equal(t, 2, domain.IndexForMarker("2⃣"), "keycap without variation selector")
	assert.Equal(t, 0, domain.IndexForMarker("4️⃣"))
	assert.Equal(t, 0, domain.IndexForMarker("thumbsup"))
	assert.Empty(t, domain.MarkerFor(0))
	assert.Empty(t, domain.MarkerFor(4))
}

func TestTally(t *testing.T) {
	tests := []struct {
		name    string
		tally   domain.Tally
		total   int
		leaders []int
	}{
		{name: "no votes", tally: domain.Tally{1: 0, 2: 0, 3: 0}, total: 0, leaders: nil},
		{name: "single leader", tally: domain.Tally{1: 4, 2: 0, 3: 1}, total: 5, leaders: []int{1}},
		{name: "tie", tally: domain.Tally{1: 2, 2: 2, 3: 1}, total: 5, leaders: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.total, tt.tally.Total())
			assert.Equal(t, tt.leaders, tt.tally.Leaders())
		})
	}
}

func TestMessageRef(t *testing.T) {
	ref := domain.MessageRef{ChannelID: "C1", MessageID: "M1"}
	assert.Equal(t, "C1:M1", ref.String())
	assert.False(t, ref.IsZero())
	assert.True(t, domain.MessageRef{ChannelID: "C1"}.IsZero())
}
