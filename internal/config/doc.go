// Package config loads the attendance tool's settings.
//
// Values are layered: built-in defaults, then a TOML file
// (~/.config/attendance/config.toml unless another path is given), then a
// .env file, then ATTENDANCE_* environment variables, then caller
// overrides such as command-line flags. Unknown TOML keys are rejected.
package config
