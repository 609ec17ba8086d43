// Package mdns advertises the homebar webhook listener over Bonjour.
//
// Clients on the LAN (shortcuts, dashboards, Stream Deck plugins) browse for
// the "_homebar._tcp" service instead of hard-coding a host and port. The
// TXT record carries the homebar version and the webhook path scheme:
//
//	version=1.2.0
//	path=/<action>/<target>
package mdns
