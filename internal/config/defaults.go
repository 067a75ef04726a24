package config

const (
	defaultWorkers        = 5
	defaultAdmissionLimit = 3
	defaultLanguage       = "eng"
	defaultPageSegMode    = 3
	defaultLogLevel       = "info"

	maxWorkers     = 64
	maxPageSegMode = 13
)

// Environment variables read by Load.
const (
	EnvWorkers        = "ATTENDANCE_WORKERS"
	EnvAdmissionLimit = "ATTENDANCE_ADMISSION_LIMIT"
	EnvLanguage       = "ATTENDANCE_LANGUAGE"
	EnvPageSegMode    = "ATTENDANCE_PAGE_SEG_MODE"
	EnvLogLevel       = "ATTENDANCE_LOG_LEVEL"
)

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Workers:        defaultWorkers,
		AdmissionLimit: defaultAdmissionLimit,
		Language:       defaultLanguage,
		PageSegMode:    defaultPageSegMode,
		LogLevel:       defaultLogLevel,
	}
}
