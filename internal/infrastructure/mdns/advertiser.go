package mdns

import (
	"fmt"
	"net"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/nickustinov/homebar/internal/infrastructure/config"
)

// register is zeroconf.Register, replaced in tests.
var register = func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (shutdowner, error) {
	return zeroconf.Register(instance, service, domain, port, text, ifaces)
}

type shutdowner interface {
	Shutdown()
}

// Advertiser holds an active mDNS registration.
type Advertiser struct {
	server shutdowner
	once   sync.Once
}

// Advertise registers the webhook listener on port under cfg.Service.
//
// Returns:
//   - *Advertiser: Call Shutdown to withdraw the advertisement
//   - error: ErrDisabled, or ErrRegisterFailed wrapping the zeroconf error
func Advertise(cfg config.MDNSConfig, port int, version string) (*Advertiser, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "local."
	}

	server, err := register(cfg.Instance, cfg.Service, domain, port, TXTRecords(version), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on port %d: %w", ErrRegisterFailed, cfg.Service, port, err)
	}
	return &Advertiser{server: server}, nil
}

// TXTRecords returns the TXT entries published with the service.
func TXTRecords(version string) []string {
	return []string{
		"version=" + version,
		"path=/<action>/<target>",
	}
}

// Shutdown withdraws the advertisement. It is safe to call more than once
// and on a nil Advertiser.
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.once.Do(a.server.Shutdown)
}
