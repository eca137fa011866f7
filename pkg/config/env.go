package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCancellationCutoff  = "CANCELLATION_CUTOFF"
	EnvSlotLockTTL         = "SLOT_LOCK_TTL"
	EnvSlotCacheTTL        = "SLOT_CACHE_TTL"
	EnvMaxSlotsPerQuery    = "MAX_SLOTS_PER_QUERY"
	EnvMaxAvailabilityDays = "MAX_AVAILABILITY_DAYS"

	EnvDefaultStartOfDay  = "DEFAULT_START_OF_DAY"
	EnvDefaultEndOfDay    = "DEFAULT_END_OF_DAY"
	EnvDefaultWorkingDays = "DEFAULT_WORKING_DAYS"
)
