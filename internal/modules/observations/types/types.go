package types

// Nullable measurements are pointers so a missing reading encodes as JSON null.

type Precipitation struct {
	Date string   `json:"date"`
	Prcp *float64 `json:"prcp"`
}

type StationActivity struct {
	Station string `json:"station"`
	Count   int    `json:"count"`
}

type TemperatureObservation struct {
	Date string   `json:"date"`
	Tobs *float64 `json:"tobs"`
}

// TemperatureSummary is all-null when no reading matched.
type TemperatureSummary struct {
	Min *float64 `json:"min"`
	Avg *float64 `json:"avg"`
	Max *float64 `json:"max"`
}

type RouteIndex struct {
	Routes map[string]string `json:"routes"`
}
