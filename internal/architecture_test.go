package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	core := archunit.Packages("core", []string{
		".../internal/resolver",
		".../internal/home",
	})
	groups := archunit.Packages("groups", []string{".../internal/group"})
	commands := archunit.Packages("commands", []string{".../internal/action"})
	infrastructure := archunit.Packages("infrastructure", []string{".../internal/infrastructure/..."})
	transport := archunit.Packages("transport", []string{".../internal/webhook", ".../internal/bridge"})

	// Resolution and data model know nothing about delivery.
	if err := core.ShouldNotReferLayers(commands, infrastructure, transport); err != nil {
		t.Errorf("Architecture violation: core depends on outer layers: %v", err)
	}

	// Groups persist through the database package but never reach for commands or transport.
	if err := groups.ShouldNotReferLayers(commands, transport); err != nil {
		t.Errorf("Architecture violation: group depends on action or transport: %v", err)
	}

	// The engine talks to the outside only through its Executor and Recorder interfaces.
	if err := commands.ShouldNotReferLayers(infrastructure, transport); err != nil {
		t.Errorf("Architecture violation: action depends on infrastructure or transport: %v", err)
	}

	if err := infrastructure.ShouldNotReferLayers(transport); err != nil {
		t.Errorf("Architecture violation: infrastructure depends on transport: %v", err)
	}
}

func TestResolverPackagePresent(t *testing.T) {
	resolver := archunit.Packages("resolver", []string{".../internal/resolver"})
	if len(resolver.Packages()) == 0 {
		t.Error("No resolver package found")
	}
}
