package common

// Watchlist storage drivers.
const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// Provider statuses reported by the catalysts aggregation.
const (
	ProviderStatusOK                 = "ok"
	ProviderStatusDegraded           = "degraded"
	ProviderStatusCurated            = "curated"
	ProviderStatusCuratedEmpty       = "curated_empty"
	ProviderStatusSkippedNoWatchlist = "skipped_no_watchlist"
)

// Catalyst event types.
const (
	CatalystTypeEarnings = "earnings"
	CatalystTypeMacro    = "macro"
)
