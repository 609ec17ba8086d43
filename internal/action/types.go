package action

import (
	"github.com/nickustinov/homebar/internal/home"
)

// Command is the verb of a Request.
type Command string

// Supported commands.
const (
	CommandToggle     Command = "toggle"
	CommandOn         Command = "on"
	CommandOff        Command = "off"
	CommandBrightness Command = "brightness"
	CommandPosition   Command = "position"
	CommandTemp       Command = "temp"
	CommandLock       Command = "lock"
	CommandUnlock     Command = "unlock"
	CommandOpen       Command = "open"
	CommandClose      Command = "close"
	CommandScene      Command = "scene"
)

// AllCommands returns every supported command.
func AllCommands() []Command {
	return []Command{
		CommandToggle, CommandOn, CommandOff, CommandBrightness, CommandPosition,
		CommandTemp, CommandLock, CommandUnlock, CommandOpen, CommandClose, CommandScene,
	}
}

// TakesValue reports whether the command consumes a numeric segment
// before the target.
func (c Command) TakesValue() bool {
	switch c {
	case CommandBrightness, CommandPosition, CommandTemp:
		return true
	default:
		return false
	}
}

// Request is a parsed command: what to do, to what, and with which value.
type Request struct {
	Command Command `json:"command"`
	Target  string  `json:"target"`
	Value   float64 `json:"value,omitempty"`
}

// Status summarises an Outcome.
type Status string

// Outcome statuses.
const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// supported lists which service types accept each command. Sensors accept
// nothing; scenes are handled separately by the Engine.
var supported = map[Command][]home.ServiceType{
	CommandToggle: {
		home.ServiceTypeLightbulb, home.ServiceTypeSwitch, home.ServiceTypeOutlet,
		home.ServiceTypeFan, home.ServiceTypeHeaterCooler, home.ServiceTypeHumidifierDehumidifier,
		home.ServiceTypeAirPurifier, home.ServiceTypeValve, home.ServiceTypeLock,
		home.ServiceTypeWindowCovering, home.ServiceTypeGarageDoorOpener,
	},
	CommandOn: {
		home.ServiceTypeLightbulb, home.ServiceTypeSwitch, home.ServiceTypeOutlet,
		home.ServiceTypeFan, home.ServiceTypeHeaterCooler, home.ServiceTypeHumidifierDehumidifier,
		home.ServiceTypeAirPurifier, home.ServiceTypeValve, home.ServiceTypeSecuritySystem,
	},
	CommandOff: {
		home.ServiceTypeLightbulb, home.ServiceTypeSwitch, home.ServiceTypeOutlet,
		home.ServiceTypeFan, home.ServiceTypeHeaterCooler, home.ServiceTypeHumidifierDehumidifier,
		home.ServiceTypeAirPurifier, home.ServiceTypeValve, home.ServiceTypeSecuritySystem,
	},
	CommandBrightness: {home.ServiceTypeLightbulb},
	CommandPosition:   {home.ServiceTypeWindowCovering},
	CommandTemp:       {home.ServiceTypeThermostat, home.ServiceTypeHeaterCooler},
	CommandLock:       {home.ServiceTypeLock},
	CommandUnlock:     {home.ServiceTypeLock},
	CommandOpen:       {home.ServiceTypeWindowCovering, home.ServiceTypeGarageDoorOpener},
	CommandClose:      {home.ServiceTypeWindowCovering, home.ServiceTypeGarageDoorOpener},
}

// Supports reports whether a service of type t can carry out the command.
func (c Command) Supports(t home.ServiceType) bool {
	for _, candidate := range supported[c] {
		if candidate == t {
			return true
		}
	}
	return false
}

// activatesScene reports whether the command runs a scene when the target
// resolves to one.
func (c Command) activatesScene() bool {
	return c == CommandScene || c == CommandOn || c == CommandToggle
}
