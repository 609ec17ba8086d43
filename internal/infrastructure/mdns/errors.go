package mdns

import "errors"

var (
	// ErrDisabled indicates mDNS advertisement is disabled in config.
	ErrDisabled = errors.New("mdns: disabled in configuration")

	// ErrRegisterFailed indicates the service could not be registered.
	ErrRegisterFailed = errors.New("mdns: register failed")
)
