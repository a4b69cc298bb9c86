package scoring

// TypeThreshold holds the operating bands for one device type. Values
// inside [NormalLow, NormalHigh] are healthy; values beyond the critical
// bounds indicate a fault; everything between is a warning.
type TypeThreshold struct {
	Type       string
	Unit       string
	NormalLow  float64
	NormalHigh float64
	CritLow    float64
	CritHigh   float64
}

// thresholdTable maps device types to their operating bands.
var thresholdTable = map[string]TypeThreshold{
	"temperature_sensor": {
		Type: "temperature_sensor", Unit: "°C",
		NormalLow: 18, NormalHigh: 28,
		CritLow: 15, CritHigh: 32,
	},
	"pressure_sensor": {
		Type: "pressure_sensor", Unit: "hPa",
		NormalLow: 980, NormalHigh: 1040,
		CritLow: 950, CritHigh: 1070,
	},
	"vibration_sensor": {
		Type: "vibration_sensor", Unit: "mm/s",
		NormalLow: 0, NormalHigh: 0.35,
		CritLow: 0, CritHigh: 0.45,
	},
	"humidity_sensor": {
		Type: "humidity_sensor", Unit: "%RH",
		NormalLow: 40, NormalHigh: 70,
		CritLow: 30, CritHigh: 80,
	},
	"flow_meter": {
		Type: "flow_meter", Unit: "L/min",
		NormalLow: 15, NormalHigh: 45,
		CritLow: 12, CritHigh: 48,
	},
}

// LookupThreshold returns the threshold entry for the given device type, if one exists.
func LookupThreshold(deviceType string) (TypeThreshold, bool) {
	t, ok := thresholdTable[deviceType]
	return t, ok
}

// DeviceTypes returns every device type with a threshold entry.
func DeviceTypes() []string {
	types := make([]string, 0, len(thresholdTable))
	for t := range thresholdTable {
		types = append(types, t)
	}
	return types
}
