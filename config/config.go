package config

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret string

	// SoonWindowDays is the look-ahead window for the "soon" status,
	// in calendar days. Zero means use the engine default.
	SoonWindowDays int
}

// AppConfig holds the application-wide configuration
var AppConfig Config
