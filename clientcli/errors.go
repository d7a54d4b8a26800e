package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrPrivateKeyRequired = errors.New("private key is required")
	ErrConfigRequired     = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoPaths        = errors.New("no paths provided")
	ErrEmptyPath      = errors.New("path is required")
	ErrEmptyURL       = errors.New("download url is required")
	ErrEmptyFileName  = errors.New("file name is required")
	ErrFileNameLength = errors.New("file name is too long")
	ErrNoFileNames    = errors.New("no file names provided")
)
