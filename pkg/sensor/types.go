// Package sensor holds the BTHome v2 object descriptors: the object id, the
// number of value bytes on the wire and the scale factor applied to physical
// values before they are packed.
package sensor

// Type describes a numeric BTHome object.
//
// Scale is the resolution of one raw unit; a physical value is divided by
// Scale before packing (23.5 °C with Scale 0.01 is sent as 2350). A zero
// Scale means the value is sent unscaled.
type Type struct {
	ID     uint8
	Width  uint8
	Scale  float64
	Signed bool
	Name   string
}

// State describes a binary sensor or an event object.
type State struct {
	ID    uint8
	Width uint8
	Name  string
}

// Object ids for length-prefixed objects.
const (
	TextID uint8 = 0x53
	RawID  uint8 = 0x54
)

// Numeric objects.
var (
	PacketID            = Type{ID: 0x00, Width: 1, Name: "packet_id"}
	Battery             = Type{ID: 0x01, Width: 1, Name: "battery"}
	Temperature         = Type{ID: 0x02, Width: 2, Scale: 0.01, Signed: true, Name: "temperature"}
	Humidity            = Type{ID: 0x03, Width: 2, Scale: 0.01, Name: "humidity"}
	Pressure            = Type{ID: 0x04, Width: 3, Scale: 0.01, Name: "pressure"}
	Illuminance         = Type{ID: 0x05, Width: 3, Scale: 0.01, Name: "illuminance"}
	MassKg              = Type{ID: 0x06, Width: 2, Scale: 0.01, Name: "mass_kg"}
	MassLb              = Type{ID: 0x07, Width: 2, Scale: 0.01, Name: "mass_lb"}
	DewPoint            = Type{ID: 0x08, Width: 2, Scale: 0.01, Signed: true, Name: "dewpoint"}
	Count               = Type{ID: 0x09, Width: 1, Name: "count"}
	Energy              = Type{ID: 0x0A, Width: 3, Scale: 0.001, Name: "energy"}
	Power               = Type{ID: 0x0B, Width: 3, Scale: 0.01, Name: "power"}
	Voltage             = Type{ID: 0x0C, Width: 2, Scale: 0.001, Name: "voltage"}
	PM25                = Type{ID: 0x0D, Width: 2, Name: "pm2_5"}
	PM10                = Type{ID: 0x0E, Width: 2, Name: "pm10"}
	CO2                 = Type{ID: 0x12, Width: 2, Name: "co2"}
	TVOC                = Type{ID: 0x13, Width: 2, Name: "tvoc"}
	Moisture            = Type{ID: 0x14, Width: 2, Scale: 0.01, Name: "moisture"}
	HumidityCoarse      = Type{ID: 0x2E, Width: 1, Name: "humidity_coarse"}
	MoistureCoarse      = Type{ID: 0x2F, Width: 1, Name: "moisture_coarse"}
	Count16             = Type{ID: 0x3D, Width: 2, Name: "count_uint16"}
	Count32             = Type{ID: 0x3E, Width: 4, Name: "count_uint32"}
	Rotation            = Type{ID: 0x3F, Width: 2, Scale: 0.1, Signed: true, Name: "rotation"}
	DistanceMM          = Type{ID: 0x40, Width: 2, Name: "distance_mm"}
	DistanceM           = Type{ID: 0x41, Width: 2, Scale: 0.1, Name: "distance_m"}
	Duration            = Type{ID: 0x42, Width: 3, Scale: 0.001, Name: "duration"}
	Current             = Type{ID: 0x43, Width: 2, Scale: 0.001, Name: "current"}
	Speed               = Type{ID: 0x44, Width: 2, Scale: 0.01, Name: "speed"}
	TemperatureCoarse   = Type{ID: 0x45, Width: 2, Scale: 0.1, Signed: true, Name: "temperature_coarse"}
	UVIndex             = Type{ID: 0x46, Width: 1, Scale: 0.1, Name: "uv_index"}
	VolumeL             = Type{ID: 0x47, Width: 2, Scale: 0.1, Name: "volume_l"}
	VolumeML            = Type{ID: 0x48, Width: 2, Name: "volume_ml"}
	VolumeFlowRate      = Type{ID: 0x49, Width: 2, Scale: 0.001, Name: "volume_flow_rate"}
	VoltageCoarse       = Type{ID: 0x4A, Width: 2, Scale: 0.1, Name: "voltage_coarse"}
	Gas                 = Type{ID: 0x4B, Width: 3, Scale: 0.001, Name: "gas"}
	Gas32               = Type{ID: 0x4C, Width: 4, Scale: 0.001, Name: "gas_uint32"}
	Energy32            = Type{ID: 0x4D, Width: 4, Scale: 0.001, Name: "energy_uint32"}
	Volume              = Type{ID: 0x4E, Width: 4, Scale: 0.001, Name: "volume"}
	Water               = Type{ID: 0x4F, Width: 4, Scale: 0.001, Name: "water"}
	Timestamp           = Type{ID: 0x50, Width: 4, Name: "timestamp"}
	Acceleration        = Type{ID: 0x51, Width: 2, Scale: 0.001, Name: "acceleration"}
	Gyroscope           = Type{ID: 0x52, Width: 2, Scale: 0.001, Name: "gyroscope"}
	VolumeStorage       = Type{ID: 0x55, Width: 4, Scale: 0.001, Name: "volume_storage"}
	Conductivity        = Type{ID: 0x56, Width: 2, Name: "conductivity"}
	TemperatureSint8    = Type{ID: 0x57, Width: 1, Signed: true, Name: "temperature_sint8"}
	TemperatureSint8035 = Type{ID: 0x58, Width: 1, Scale: 0.35, Signed: true, Name: "temperature_sint8_035"}
	CountSint8          = Type{ID: 0x59, Width: 1, Signed: true, Name: "count_sint8"}
	CountSint16         = Type{ID: 0x5A, Width: 2, Signed: true, Name: "count_sint16"}
	CountSint32         = Type{ID: 0x5B, Width: 4, Signed: true, Name: "count_sint32"}
	PowerSint32         = Type{ID: 0x5C, Width: 4, Scale: 0.01, Signed: true, Name: "power_sint32"}
	CurrentSint16       = Type{ID: 0x5D, Width: 2, Scale: 0.001, Signed: true, Name: "current_sint16"}
	DeviceTypeID        = Type{ID: 0xF0, Width: 2, Name: "device_type_id"}
	FirmwareVersion32   = Type{ID: 0xF1, Width: 4, Name: "firmware_version_uint32"}
	FirmwareVersion24   = Type{ID: 0xF2, Width: 3, Name: "firmware_version_uint24"}
)

// Binary sensors.
var (
	GenericBoolean  = State{ID: 0x0F, Width: 1, Name: "generic_boolean"}
	PowerState      = State{ID: 0x10, Width: 1, Name: "power_state"}
	Opening         = State{ID: 0x11, Width: 1, Name: "opening"}
	BatteryLow      = State{ID: 0x15, Width: 1, Name: "battery_low"}
	BatteryCharging = State{ID: 0x16, Width: 1, Name: "battery_charging"}
	CarbonMonoxide  = State{ID: 0x17, Width: 1, Name: "carbon_monoxide"}
	Cold            = State{ID: 0x18, Width: 1, Name: "cold"}
	Connectivity    = State{ID: 0x19, Width: 1, Name: "connectivity"}
	Door            = State{ID: 0x1A, Width: 1, Name: "door"}
	GarageDoor      = State{ID: 0x1B, Width: 1, Name: "garage_door"}
	GasDetected     = State{ID: 0x1C, Width: 1, Name: "gas_detected"}
	Heat            = State{ID: 0x1D, Width: 1, Name: "heat"}
	Light           = State{ID: 0x1E, Width: 1, Name: "light"}
	Lock            = State{ID: 0x1F, Width: 1, Name: "lock"}
	MoistureState   = State{ID: 0x20, Width: 1, Name: "moisture_state"}
	Motion          = State{ID: 0x21, Width: 1, Name: "motion"}
	Moving          = State{ID: 0x22, Width: 1, Name: "moving"}
	Occupancy       = State{ID: 0x23, Width: 1, Name: "occupancy"}
	Plug            = State{ID: 0x24, Width: 1, Name: "plug"}
	Presence        = State{ID: 0x25, Width: 1, Name: "presence"}
	Problem         = State{ID: 0x26, Width: 1, Name: "problem"}
	Running         = State{ID: 0x27, Width: 1, Name: "running"}
	Safety          = State{ID: 0x28, Width: 1, Name: "safety"}
	Smoke           = State{ID: 0x29, Width: 1, Name: "smoke"}
	Sound           = State{ID: 0x2A, Width: 1, Name: "sound"}
	Tamper          = State{ID: 0x2B, Width: 1, Name: "tamper"}
	Vibration       = State{ID: 0x2C, Width: 1, Name: "vibration"}
	Window          = State{ID: 0x2D, Width: 1, Name: "window"}
)

// Events. Dimmer carries the event in the low byte and the number of steps
// in the high byte.
var (
	Button = State{ID: 0x3A, Width: 1, Name: "button"}
	Dimmer = State{ID: 0x3C, Width: 2, Name: "dimmer"}
)

// Button event values.
const (
	ButtonNone uint8 = iota
	ButtonPress
	ButtonDoublePress
	ButtonTriplePress
	ButtonLongPress
	ButtonLongDoublePress
	ButtonLongTriplePress
	ButtonHoldPress uint8 = 0x80
)

// Dimmer event values.
const (
	DimmerNone        uint8 = 0x00
	DimmerRotateLeft  uint8 = 0x01
	DimmerRotateRight uint8 = 0x02
)
