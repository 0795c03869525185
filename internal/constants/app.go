package constants

// Application Information
const (
	AppName    = "Gestio Auth Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Throttle Key Prefixes (Redis)
const (
	ThrottleKeyPrefix = "gestio:throttle:"
	ThrottleKeyEmail  = ThrottleKeyPrefix + "email:"
	ThrottleKeyIP     = ThrottleKeyPrefix + "ip:"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
