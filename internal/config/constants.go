package config

import "time"

// Refresh timers.
const (
	DefaultPollInterval  = 30 * time.Second
	DefaultQuoteInterval = 60 * time.Second
	FetchTimeout         = 20 * time.Second
)

// Environments.
const (
	EnvDev = "dev"
	EnvPi  = "pi"
)

// Data source defaults.
const (
	DefaultPeople              = "Aaron,Michael"
	DefaultIncidentSheetFormat = "%s"
	DefaultRewardSheetFormat   = "%s Rewards"
	DefaultQuoteFile           = "quotes.yml"
	DefaultQuote               = "Build Trust! No lying, cheating, stealing, or sneaking."
	DateLayout                 = "2006-01-02"
)

// FallbackIncidentDate is used when a person has no parseable incident rows.
var FallbackIncidentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Application settings.
const (
	AppName      = "integrity"
	DBFileName   = "cache.db"
	LogFileName  = "integrity.log"
	ReportPrefix = "integrity-report"
)
