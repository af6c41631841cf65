package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shinobi-rh/internal/config"
	"shinobi-rh/internal/handler"
	"shinobi-rh/internal/i18n"
	"shinobi-rh/internal/mattermost"
	"shinobi-rh/internal/model"
	"shinobi-rh/internal/service"
	"shinobi-rh/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	i18n.Init(cfg.DefaultLocale)

	ctx := context.Background()

	// Connect to MongoDB
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	// Stores
	attendanceStore, err := store.NewAttendanceStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init attendance store: %v", err)
	}
	scheduleStore, err := store.NewScheduleStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init schedule store: %v", err)
	}
	employeeStore, err := store.NewEmployeeStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init employee store: %v", err)
	}

	// Late-arrival alerts go to a Mattermost channel when configured
	var notifier service.Notifier
	if cfg.NotificationsEnabled() {
		mm := mattermost.NewClient(cfg.MattermostURL, cfg.MattermostBotToken)
		notifier = mattermost.NewChannelNotifier(mm, cfg.MattermostAlertChannel)
	} else {
		log.Println("Mattermost alerts disabled")
	}

	// Services
	defStart, err := model.ParseClock(cfg.DefaultScheduleStart)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_SCHEDULE_START: %v", err)
	}
	defEnd, err := model.ParseClock(cfg.DefaultScheduleEnd)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_SCHEDULE_END: %v", err)
	}
	scheduleSvc := service.NewScheduleService(scheduleStore, service.ScheduleDefaults{
		StartTime:          defStart,
		EndTime:            defEnd,
		GracePeriodMinutes: cfg.DefaultGraceMinutes,
		AutoProvision:      cfg.AutoProvisionSchedule,
	})
	employeeSvc := service.NewEmployeeService(employeeStore, scheduleSvc)
	attendanceSvc := service.NewAttendanceService(attendanceStore, employeeStore, scheduleSvc, notifier)

	// Routes
	authn := handler.NewAuthenticator(cfg.JWTSecret)
	mux := http.NewServeMux()
	handler.NewAttendanceHandler(attendanceSvc, authn, cfg.Location, cfg.TrustProxy).RegisterRoutes(mux)
	handler.NewScheduleHandler(scheduleSvc, authn).RegisterRoutes(mux)
	handler.NewEmployeeHandler(employeeSvc, authn).RegisterRoutes(mux)
	if cfg.EnableAPIDocs {
		handler.RegisterAPIDocs(mux)
	}

	// Health checks
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			log.Printf("ERROR readiness: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("mongodb unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.LoggingMiddleware(handler.CORSMiddleware(cfg.AllowedOrigins)(handler.LocaleMiddleware(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Attendance service started on :%s (env: %s, tz: %s)", cfg.Port, cfg.Env, cfg.Location)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
