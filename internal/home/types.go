package home

// ServiceType is the closed set of accessory service categories that the
// platform integration exposes.
type ServiceType string

// Controllable service types.
const (
	ServiceTypeLightbulb              ServiceType = "lightbulb"
	ServiceTypeSwitch                 ServiceType = "switch"
	ServiceTypeOutlet                 ServiceType = "outlet"
	ServiceTypeThermostat             ServiceType = "thermostat"
	ServiceTypeHeaterCooler           ServiceType = "heater_cooler"
	ServiceTypeLock                   ServiceType = "lock"
	ServiceTypeWindowCovering         ServiceType = "window_covering"
	ServiceTypeFan                    ServiceType = "fan"
	ServiceTypeGarageDoorOpener       ServiceType = "garage_door_opener"
	ServiceTypeHumidifierDehumidifier ServiceType = "humidifier_dehumidifier"
	ServiceTypeAirPurifier            ServiceType = "air_purifier"
	ServiceTypeValve                  ServiceType = "valve"
	ServiceTypeSecuritySystem         ServiceType = "security_system"
)

// Read-only sensor service types.
const (
	ServiceTypeContactSensor     ServiceType = "contact_sensor"
	ServiceTypeTemperatureSensor ServiceType = "temperature_sensor"
	ServiceTypeHumiditySensor    ServiceType = "humidity_sensor"
)

// AllServiceTypes returns all valid service type values.
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceTypeLightbulb, ServiceTypeSwitch, ServiceTypeOutlet,
		ServiceTypeThermostat, ServiceTypeHeaterCooler, ServiceTypeLock,
		ServiceTypeWindowCovering, ServiceTypeFan, ServiceTypeGarageDoorOpener,
		ServiceTypeHumidifierDehumidifier, ServiceTypeAirPurifier, ServiceTypeValve,
		ServiceTypeSecuritySystem, ServiceTypeContactSensor,
		ServiceTypeTemperatureSensor, ServiceTypeHumiditySensor,
	}
}

// Valid reports whether t is one of the known service types.
func (t ServiceType) Valid() bool {
	for _, known := range AllServiceTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// IsSensor reports whether the service only reports values and accepts no commands.
func (t ServiceType) IsSensor() bool {
	switch t {
	case ServiceTypeContactSensor, ServiceTypeTemperatureSensor, ServiceTypeHumiditySensor:
		return true
	default:
		return false
	}
}

// Room is a user-named physical space. Names are not guaranteed unique.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service is one controllable endpoint of a physical accessory.
//
// ID is unique across a snapshot; Name is not (two rooms may both have
// "Spotlights").
type Service struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          ServiceType `json:"type"`
	RoomID        *string     `json:"room_id,omitempty"`
	AccessoryName string      `json:"accessory_name,omitempty"`
}

// InRoom reports whether the service is assigned to the room with the given ID.
func (s Service) InRoom(roomID string) bool {
	return s.RoomID != nil && *s.RoomID == roomID
}

// Scene is a named, user-triggerable bundle of characteristic values.
type Scene struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
