package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/church-agenda/internal/config"
	"github.com/iliyamo/church-agenda/internal/database"
	"github.com/iliyamo/church-agenda/internal/handler"
	"github.com/iliyamo/church-agenda/internal/middleware"
	"github.com/iliyamo/church-agenda/internal/queue"
	"github.com/iliyamo/church-agenda/internal/repository"
	"github.com/iliyamo/church-agenda/internal/router"
	"github.com/iliyamo/church-agenda/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis powers rate limiting and the calendar response cache. A nil
	// client disables both instead of failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	spaces := repository.NewSpaceRepo(db)
	reservations := repository.NewReservationRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	requests := repository.NewMeetingRequestRepo(db)
	notifications := repository.NewNotificationRepo(db)

	// Services
	notifier := service.NewNotifier(users, notifications)
	reservationSvc := service.NewReservationService(db, spaces, reservations, notifier)
	meetingSvc := service.NewMeetingRequestService(requests, scheduleRepo, users, notifier)
	calendarSvc := service.NewCalendarService(reservations, scheduleRepo, spaces,
		cfg.AgendaDayStart, cfg.AgendaDayEnd)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	userH := handler.NewUserHandler(users)
	spaceH := handler.NewSpaceHandler(spaces)
	reservationH := handler.NewReservationHandler(reservationSvc)
	meetingH := handler.NewMeetingRequestHandler(meetingSvc)
	scheduleH := handler.NewScheduleHandler(scheduleRepo)
	calendarH := handler.NewCalendarHandler(calendarSvc)
	notificationH := handler.NewNotificationHandler(notifications)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterMember(e, router.MemberHandlers{
		Auth:          authH,
		Users:         userH,
		Spaces:        spaceH,
		Reservations:  reservationH,
		Meetings:      meetingH,
		Schedule:      scheduleH,
		Calendar:      calendarH,
		Notifications: notificationH,
	}, cfg.JWTSecret, cacheMW)
	router.RegisterStaff(e, router.StaffHandlers{
		Users:        userH,
		Spaces:       spaceH,
		Reservations: reservationH,
		Meetings:     meetingH,
		Schedule:     scheduleH,
	}, cfg.JWTSecret)

	// Consume notification.created events in the background; the consumer
	// reconnects on its own if the broker drops.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
