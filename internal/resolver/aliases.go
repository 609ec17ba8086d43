package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/home"
)

// typeAliases maps the words people use for device kinds onto service
// types. Each service type's own name is added by init.
var typeAliases = map[string]home.ServiceType{
	"light": home.ServiceTypeLightbulb,
	"bulb":  home.ServiceTypeLightbulb,
	"lamp":  home.ServiceTypeLightbulb,

	"switch": home.ServiceTypeSwitch,

	"outlet": home.ServiceTypeOutlet,
	"plug":   home.ServiceTypeOutlet,
	"socket": home.ServiceTypeOutlet,

	"ac":     home.ServiceTypeHeaterCooler,
	"aircon": home.ServiceTypeHeaterCooler,
	"heater": home.ServiceTypeHeaterCooler,
	"cooler": home.ServiceTypeHeaterCooler,

	"blind":    home.ServiceTypeWindowCovering,
	"shade":    home.ServiceTypeWindowCovering,
	"window":   home.ServiceTypeWindowCovering,
	"curtain":  home.ServiceTypeWindowCovering,
	"covering": home.ServiceTypeWindowCovering,

	"garage":       home.ServiceTypeGarageDoorOpener,
	"humidifier":   home.ServiceTypeHumidifierDehumidifier,
	"dehumidifier": home.ServiceTypeHumidifierDehumidifier,
	"purifier":     home.ServiceTypeAirPurifier,
	"sprinkler":    home.ServiceTypeValve,

	"security": home.ServiceTypeSecuritySystem,
	"alarm":    home.ServiceTypeSecuritySystem,

	"contact":     home.ServiceTypeContactSensor,
	"temperature": home.ServiceTypeTemperatureSensor,
	"humidity":    home.ServiceTypeHumiditySensor,
}

func init() {
	for _, t := range home.AllServiceTypes() {
		typeAliases[string(t)] = t
	}
}

// lookupType maps a word to a service type. Plurals are accepted by
// stripping a trailing "es" or "s", but only when the stripped form is a
// known alias.
func lookupType(word string) (home.ServiceType, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", false
	}

	if t, ok := typeAliases[word]; ok {
		return t, true
	}
	if stem, ok := strings.CutSuffix(word, "es"); ok {
		if t, ok := typeAliases[stem]; ok {
			return t, true
		}
	}
	if stem, ok := strings.CutSuffix(word, "s"); ok {
		if t, ok := typeAliases[stem]; ok {
			return t, true
		}
	}
	return "", false
}
