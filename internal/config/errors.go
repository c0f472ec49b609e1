package config

import "errors"

var (
	// ErrReadFile is returned when the YAML config file cannot be read.
	ErrReadFile = errors.New("failed to read config file")

	// ErrParseFile is returned when the YAML config file is malformed.
	ErrParseFile = errors.New("failed to parse config file")

	// ErrParseEnv is returned when environment variables cannot be parsed
	// into the config struct.
	ErrParseEnv = errors.New("failed to parse environment variables into config")

	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("invalid configuration")
)
