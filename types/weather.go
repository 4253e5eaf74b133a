package types

// UnitSystem selects the measurement units sent upstream and shown to the
// user. Switching it forces a re-fetch of the snapshot for the current
// location but never invalidates resolved locations.
type UnitSystem string

const (
	UnitMetric   UnitSystem = "metric"
	UnitImperial UnitSystem = "imperial"
)

// Valid reports whether the unit system is one of the supported values.
func (u UnitSystem) Valid() bool {
	return u == UnitMetric || u == UnitImperial
}

// TempSymbol returns the display symbol for temperatures in this unit system.
func (u UnitSystem) TempSymbol() string {
	if u == UnitImperial {
		return "°F"
	}
	return "°C"
}

// WeatherDescription is a single weather condition descriptor.
type WeatherDescription struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentConditions holds current weather observations. Timestamps are epoch
// seconds, UTC. Temperature and wind fields are unit-dependent.
type CurrentConditions struct {
	Dt         int64                `json:"dt"`
	Sunrise    int64                `json:"sunrise"`
	Sunset     int64                `json:"sunset"`
	Temp       float64              `json:"temp"`
	FeelsLike  float64              `json:"feels_like"`
	Pressure   int                  `json:"pressure"`
	Humidity   int                  `json:"humidity"`
	DewPoint   float64              `json:"dew_point"`
	UVI        float64              `json:"uvi"`
	Clouds     int                  `json:"clouds"`
	Visibility int                  `json:"visibility"`
	WindSpeed  float64              `json:"wind_speed"`
	WindDeg    int                  `json:"wind_deg"`
	Weather    []WeatherDescription `json:"weather"`
}

// DailyTemp is the per-day temperature sub-record.
type DailyTemp struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

// DailyForecast is one day of the forecast sequence. Pop is the precipitation
// probability in [0.0, 1.0].
type DailyForecast struct {
	Dt      int64                `json:"dt"`
	Sunrise int64                `json:"sunrise"`
	Sunset  int64                `json:"sunset"`
	Temp    DailyTemp            `json:"temp"`
	Pop     float64              `json:"pop"`
	UVI     float64              `json:"uvi"`
	Weather []WeatherDescription `json:"weather"`
}

// Alert is an active weather alert from the provider.
type Alert struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// WeatherSnapshot is the full bundle returned by the one-call endpoint:
// current conditions, up to 8 chronological daily forecasts (index 0 is
// today), and any active alerts. It is immutable and replaced wholesale on
// every successful fetch.
type WeatherSnapshot struct {
	Lat            float64           `json:"lat"`
	Lon            float64           `json:"lon"`
	Timezone       string            `json:"timezone"`
	TimezoneOffset int               `json:"timezone_offset"`
	Current        CurrentConditions `json:"current"`
	Daily          []DailyForecast   `json:"daily"`
	Alerts         []Alert           `json:"alerts,omitempty"`
}
