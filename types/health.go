package types

// HealthStatus represents the availability of the service or one of its
// components.
type HealthStatus string

const (
	HealthStatusUp   HealthStatus = "UP"
	HealthStatusDown HealthStatus = "DOWN"
)

// HealthCheck is the readiness/liveness response body.
type HealthCheck struct {
	Status     HealthStatus            `json:"status"`
	Version    string                  `json:"version,omitempty"`
	Uptime     string                  `json:"uptime,omitempty"`
	Components map[string]HealthStatus `json:"components,omitempty"`
}
