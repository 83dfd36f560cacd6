package sensor

var types = []Type{
	PacketID, Battery, Temperature, Humidity, Pressure, Illuminance, MassKg,
	MassLb, DewPoint, Count, Energy, Power, Voltage, PM25, PM10, CO2, TVOC,
	Moisture, HumidityCoarse, MoistureCoarse, Count16, Count32, Rotation,
	DistanceMM, DistanceM, Duration, Current, Speed, TemperatureCoarse,
	UVIndex, VolumeL, VolumeML, VolumeFlowRate, VoltageCoarse, Gas, Gas32,
	Energy32, Volume, Water, Timestamp, Acceleration, Gyroscope,
	VolumeStorage, Conductivity, TemperatureSint8, TemperatureSint8035,
	CountSint8, CountSint16, CountSint32, PowerSint32, CurrentSint16,
	DeviceTypeID, FirmwareVersion32, FirmwareVersion24,
}

var states = []State{
	GenericBoolean, PowerState, Opening, BatteryLow, BatteryCharging,
	CarbonMonoxide, Cold, Connectivity, Door, GarageDoor, GasDetected, Heat,
	Light, Lock, MoistureState, Motion, Moving, Occupancy, Plug, Presence,
	Problem, Running, Safety, Smoke, Sound, Tamper, Vibration, Window,
	Button, Dimmer,
}

// LookupType returns the numeric object with the given name.
func LookupType(name string) (Type, bool) {
	for _, t := range types {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}

// LookupState returns the binary sensor or event with the given name.
func LookupState(name string) (State, bool) {
	for _, s := range states {
		if s.Name == name {
			return s, true
		}
	}
	return State{}, false
}

// Types returns all known numeric objects ordered by id.
func Types() []Type {
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

// States returns all known binary sensors and events ordered by id.
func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}
