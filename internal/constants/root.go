package constants

const (
	AppName            = "smokefree"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/smokefree"
	DatabaseFileName   = "smokefree.db"
	ConfigFileName     = "config.toml"
	EnvFileName        = "smokefree.env"
	LockFileName       = "smokefree.lock"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is used for human-facing timestamps in listings
	DateTimeFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "smokefree-"
	BackupFileSuffix = ".db"

	// Notifier constants
	TrayAppIdentifier      = "com.smokefree.tray"
	TrayExecutablePrefix   = "smokefree-tray"
	NotifierLockfileName   = "smokefree-tray.lock"
	NotifierSecretHeader   = "X-Smokefree-Secret"
	NotificationDurationMs = 8000

	// Environment overrides
	EnvStorage  = "SMOKEFREE_STORAGE"
	EnvLogLevel = "SMOKEFREE_LOG_LEVEL"
	EnvDebug    = "SMOKEFREE_DEBUG"

	// StorageKeyring selects the connection string stored in the OS keyring
	StorageKeyring = "keyring"
)
