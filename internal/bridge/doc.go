// Package bridge connects homebar to the home platform over MQTT.
//
// Executor implements action.Executor by publishing JSON commands, guarded
// by a circuit breaker so a wedged broker fails fast with
// action.ErrBridgeUnavailable instead of stalling every webhook request.
//
// SnapshotSync consumes the retained snapshot topic and swaps each decoded
// snapshot into a home.Store, so resolution always runs against the
// platform's latest view of rooms, services and scenes.
package bridge
