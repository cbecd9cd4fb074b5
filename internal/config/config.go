// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// FacilityConfig seeds one facility into the directory at startup.
type FacilityConfig struct {
	ID                 string  `koanf:"id"`
	Name               string  `koanf:"name"`
	Lat                float64 `koanf:"lat"`
	Lng                float64 `koanf:"lng"`
	BaseWaitMinutes    int     `koanf:"base_wait_minutes"`
	EmergencyCapacity  int     `koanf:"emergency_capacity"`
	CurrentQueueLength int     `koanf:"current_queue_length"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxRadiusKM bounds the facility search radius for ranking.
	MaxRadiusKM float64 `koanf:"max_radius_km"`

	// FacilityMultipliers maps facility ids to load multipliers used by the
	// wait estimator. Unknown facilities use 1.0.
	FacilityMultipliers map[string]float64 `koanf:"facility_multipliers"`

	// RemoteEnabled toggles the remote model adapter. When disabled the
	// rule engine verdict is final.
	RemoteEnabled bool `koanf:"remote_enabled"`

	// RemoteEndpoint is the inference endpoint URL.
	RemoteEndpoint string `koanf:"remote_endpoint"`

	// RemoteToken is the bearer token for the inference endpoint.
	RemoteToken string `koanf:"remote_token"`

	// RemoteTimeoutSeconds bounds each inference call.
	RemoteTimeoutSeconds int `koanf:"remote_timeout_seconds"`

	// Facilities seeds the facility directory at startup.
	Facilities []FacilityConfig `koanf:"facilities"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:    "info",
		Addr:        ":9080",
		MaxRadiusKM: 50,
		FacilityMultipliers: map[string]float64{
			"mtrh_001":     1.0,
			"knh_001":      1.2,
			"mbagathi_001": 0.9,
			"kenyatta_001": 1.1,
		},
		RemoteEnabled:        false,
		RemoteTimeoutSeconds: 10,
		Facilities: []FacilityConfig{
			{
				ID:                "mtrh_001",
				Name:              "Moi Teaching and Referral Hospital",
				Lat:               0.5175,
				Lng:               35.2693,
				BaseWaitMinutes:   45,
				EmergencyCapacity: 50,
			},
			{
				ID:                "kemri_001",
				Name:              "KEMRI Wellcome Trust",
				Lat:               -1.2921,
				Lng:               36.8219,
				BaseWaitMinutes:   35,
				EmergencyCapacity: 30,
			},
			{
				ID:                "nairobi_womens_001",
				Name:              "Nairobi Women's Hospital",
				Lat:               -1.2864,
				Lng:               36.8172,
				BaseWaitMinutes:   25,
				EmergencyCapacity: 25,
			},
			{
				ID:                "mombasa_001",
				Name:              "Coast General Hospital",
				Lat:               -4.0435,
				Lng:               39.6682,
				BaseWaitMinutes:   30,
				EmergencyCapacity: 20,
			},
		},
	}
	return c
}
