package main

import (
	availabilityhandler "slotwise/internal/availability/handler"
	availabilityservice "slotwise/internal/availability/service"
	"slotwise/internal/bookings/events"
	bookinghandler "slotwise/internal/bookings/handler"
	bookingrepo "slotwise/internal/bookings/repository"
	bookingservice "slotwise/internal/bookings/service"
	bookingvalidator "slotwise/internal/bookings/validator"
	"slotwise/internal/capacity"
	resourcehandler "slotwise/internal/resources/handler"
	resourcerepo "slotwise/internal/resources/repository"
	resourceservice "slotwise/internal/resources/service"
	"slotwise/internal/staffing"
	"slotwise/pkg/app"
	"slotwise/pkg/cache"
	"slotwise/pkg/config"
	"slotwise/pkg/kafka"
	kafkaconfig "slotwise/pkg/kafka/config"
)

const ServiceName = "engine"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting booking engine")

	cfg.SetMongo()
	if cfg.RedisAddr != "" {
		cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	defer cfg.GracefulShutdown()

	availability, booking, resource := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		availabilityhandler.NewAvailabilityHandler(availability, cfg.Log),
		bookinghandler.NewBookingHandler(booking, cfg.Log),
		resourcehandler.NewResourceHandler(resource, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (availabilityservice.AvailabilityService, bookingservice.BookingService, resourceservice.ResourceService) {
	resources := resourcerepo.NewMongoResourceRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	locks := bookingrepo.NewMongoSlotLockRepository(cfg)
	staff := staffing.NewMongoStaffRepository(cfg)

	guard := capacity.NewGuard(bookings, cfg.Log)
	resolver := staffing.NewResolver(staff, cfg.Log)
	validator := bookingvalidator.NewBookingValidator(cfg.Log)

	var slotCache *cache.SlotCache
	var availCache availabilityservice.SlotCache
	var invalidator bookingservice.CacheInvalidator
	if cfg.Client.Redis != nil {
		slotCache = cache.NewSlotCache(cfg.Client.Redis, cfg.SlotCacheTTL, cfg.Log)
		availCache = slotCache
		invalidator = slotCache
		cfg.Log.Info("Slot cache enabled", "ttl", cfg.SlotCacheTTL)
	}

	var sink bookingservice.EventSink
	kafkaCfg := kafkaconfig.Load()
	if kafkaCfg.Enabled() {
		producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		sink = events.NewPublisher(producer, cfg.Log)
		cfg.Log.Info("Booking event publishing enabled", "topic", cfg.EventsTopic)
	}

	availability := availabilityservice.NewAvailabilityService(resources, guard, resolver, availCache, cfg)
	booking := bookingservice.NewBookingService(
		bookings, locks, staff, resources,
		guard, resolver, validator, sink, invalidator, cfg,
	)

	resource := resourceservice.NewResourceService(resources, cfg)

	cfg.Log.Info("Engine services initialized", "database", cfg.MongoDatabaseName)
	return availability, booking, resource
}
