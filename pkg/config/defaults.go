package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotwise"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultEventsTopic    = "booking-events"
	DefaultEventsDLQTopic = "booking-events-dlq"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultCancellationCutoff is the minimum lead time before a booking's
	// start for cancellation to be permitted.
	DefaultCancellationCutoff = 24 * time.Hour

	// DefaultSlotLockTTL bounds how long an advisory slot lock can outlive a
	// crashed booking attempt.
	DefaultSlotLockTTL = 10 * time.Second

	DefaultSlotCacheTTL        = 60 * time.Second
	DefaultMaxSlotsPerQuery    = 500
	DefaultMaxAvailabilityDays = 62

	DefaultPaginationLimit = 100

	// The default trading calendar applies to resources with no business
	// hours configured. It preserves the historical Monday-Friday
	// 09:00-18:00 policy as an explicit, overridable profile.
	DefaultStartOfDay  = "09:00"
	DefaultEndOfDay    = "18:00"
	DefaultWorkingDays = "Monday,Tuesday,Wednesday,Thursday,Friday"
)
