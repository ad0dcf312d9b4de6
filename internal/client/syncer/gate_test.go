package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name  string
		state NetworkState
		prefs Preferences
		want  bool
	}{
		{
			name:  "offline denies regardless of type",
			state: NetworkState{Online: false, Type: ConnectionWifi},
			want:  false,
		},
		{
			name:  "online wifi allows",
			state: NetworkState{Online: true, Type: ConnectionWifi},
			want:  true,
		},
		{
			name:  "online cellular allows by default",
			state: NetworkState{Online: true, Type: ConnectionCellular},
			want:  true,
		},
		{
			name:  "unmetered-only denies cellular",
			state: NetworkState{Online: true, Type: ConnectionCellular},
			prefs: Preferences{UnmeteredOnly: true},
			want:  false,
		},
		{
			name:  "unmetered-only allows ethernet",
			state: NetworkState{Online: true, Type: ConnectionEthernet},
			prefs: Preferences{UnmeteredOnly: true},
			want:  true,
		},
		{
			name:  "unmetered-only allows unknown type",
			state: NetworkState{Online: true, Type: ConnectionUnknown},
			prefs: Preferences{UnmeteredOnly: true},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.state, tt.prefs))
		})
	}
}

func TestConnectionType_LowBandwidth(t *testing.T) {
	assert.True(t, ConnectionCellular.LowBandwidth())
	assert.False(t, ConnectionWifi.LowBandwidth())
	assert.False(t, ConnectionEthernet.LowBandwidth())
	assert.False(t, ConnectionUnknown.LowBandwidth())
}
