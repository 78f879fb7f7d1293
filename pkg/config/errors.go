package config

import "errors"

var (
	ErrParsingConfig   = errors.New("config.errors.parsing_failed")
	ErrNilPointer      = errors.New("config.errors.nil_pointer")
	ErrLoadingEnvFiles = errors.New("config.errors.env_files")
)
