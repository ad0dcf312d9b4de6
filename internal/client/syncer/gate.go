package syncer

// ConnectionType classifies the current network connection.
type ConnectionType string

const (
	ConnectionWifi     ConnectionType = "wifi"
	ConnectionEthernet ConnectionType = "ethernet"
	ConnectionCellular ConnectionType = "cellular"
	ConnectionUnknown  ConnectionType = "unknown"
)

// LowBandwidth reports whether the connection type counts as metered or
// low-bandwidth for the policy gate.
func (t ConnectionType) LowBandwidth() bool {
	return t == ConnectionCellular
}

// NetworkState is the device's connectivity snapshot.
type NetworkState struct {
	Online bool
	Type   ConnectionType
}

// Preferences are the user's sync restrictions.
type Preferences struct {
	// UnmeteredOnly restricts syncing to connections that are not
	// classified as low-bandwidth.
	UnmeteredOnly bool
}

// Allowed is the network policy gate: a pure predicate deciding whether a
// sync pass may start. Deny when offline, deny when the user restricts
// syncing to unmetered connections and the current one is low-bandwidth,
// allow otherwise.
func Allowed(state NetworkState, prefs Preferences) bool {
	if !state.Online {
		return false
	}
	if prefs.UnmeteredOnly && state.Type.LowBandwidth() {
		return false
	}
	return true
}
