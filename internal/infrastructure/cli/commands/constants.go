package commands

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable (history.enabled is false)"
	ErrKeyRequired              = "--key is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoBackups                = "No backups yet."
	MsgNoCertificates           = "No matching certificates."
)

// Flag names
const (
	flagPasswordStdin = "password-stdin"
	flagJSON          = "json"
)
