package constants

// Durable storage keys. Each names one field of the tracked state.
const (
	KeyQuitDate         = "quitDate"
	KeyCigarettesPerDay = "cigarettesPerDay"
	KeyPricePerPack     = "pricePerPack"
	KeyCravings         = "cravings"
	KeyTasks            = "tasks"
	KeyCompletedTasks   = "completedTasks"
)

// StorageKeys lists every key in load order.
var StorageKeys = []string{
	KeyQuitDate,
	KeyCigarettesPerDay,
	KeyPricePerPack,
	KeyCravings,
	KeyTasks,
	KeyCompletedTasks,
}

const (
	DefaultCigarettesPerDay = 10
	DefaultPricePerPack     = 10.0

	// CigarettesPerPack is fixed; money estimates assume a standard pack.
	CigarettesPerPack = 20

	// PeakHourMinLogs is the minimum number of cravings before a peak hour is reported.
	PeakHourMinLogs = 3

	MinIntensity = 1
	MaxIntensity = 5

	// RecentCravingsLimit is how many cravings the log views show by default.
	RecentCravingsLimit = 10

	// DefaultBackdateDays is used by the "I quit before" onboarding shortcut.
	DefaultBackdateDays = 2

	DefaultReminderTitle  = "Stay strong"
	DefaultReminderBody   = "Check in with your progress and log any cravings."
	DefaultReminderHour   = 9
	DefaultReminderMinute = 0
)
