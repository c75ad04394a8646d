package spots

// PressureTrend is the direction of recent barometric pressure movement.
// The trend is attached to the snapshot by whoever fetched it, never
// recomputed by the engine.
type PressureTrend string

const (
	TrendFalling PressureTrend = "falling"
	TrendSteady  PressureTrend = "steady"
	TrendRising  PressureTrend = "rising"
)

// WeatherSnapshot is the weather at one location (or its regional proxy)
// at request time. A value object: the engine never fetches or mutates it.
type WeatherSnapshot struct {
	TemperatureC  float64       `json:"temperature"`
	PressureHpa   float64       `json:"pressure"`
	WindSpeedKmh  float64       `json:"wind_speed"`
	PressureTrend PressureTrend `json:"pressure_trend"`
}
