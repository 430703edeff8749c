package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/med_clinic/internal/config"
	"github.com/Skotchmaster/med_clinic/internal/db"
	"github.com/Skotchmaster/med_clinic/internal/es"
	"github.com/Skotchmaster/med_clinic/internal/httpserver"
	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/media"
	"github.com/Skotchmaster/med_clinic/internal/middleware/auth"
	"github.com/Skotchmaster/med_clinic/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/med_clinic/internal/middleware/logging"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/notify"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
	"github.com/Skotchmaster/med_clinic/internal/service"
)

func main() {
	cfg := config.Load()
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var (
		events   mykafka.Publisher = mykafka.Nop{}
		consumer *mykafka.Consumer
	)
	if len(cfg.KafkaBrokers) > 0 {
		events = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	cache := revalidate.New(revalidate.NewStore(cfg.CacheTTL), events)
	if len(cfg.KafkaBrokers) > 0 {
		group := cfg.KafkaGroupID
		if group == "" {
			host, _ := os.Hostname()
			group = fmt.Sprintf("%s-cache-%s", cfg.ServiceName, host)
		}
		consumer = mykafka.NewConsumer(cfg.KafkaBrokers, mykafka.TopicCache, group, logger)
		go func() {
			if err := consumer.Run(rootCtx, cache.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("cache_subscriber_stopped", "error", err)
			}
		}()
	}

	var (
		indexer  service.Indexer
		searcher service.Searcher
	)
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(rootCtx, 5*time.Second)
		client, err := es.NewClient(esCtx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		esCancel()
		if err != nil {
			logger.Error("elasticsearch_unavailable", "error", err)
		} else {
			indexer, searcher = client, client
		}
	} else {
		logger.Info("elasticsearch_disabled", "reason", "ES_URL not set")
	}

	var sms notify.SMSSender = notify.NopSMS{}
	if cfg.SMSAPIURL != "" {
		sms = notify.NewSMSClient(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSSenderID)
	} else {
		logger.Info("sms_disabled", "reason", "SMS_API_URL not set")
	}

	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		logger.Info("mail_disabled", "reason", "SMTP_HOST not set")
	}

	var uploader media.Uploader = media.Disabled{}
	if cfg.CloudinaryURL != "" {
		cld, err := media.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			logger.Error("cloudinary_unavailable", "error", err)
		} else {
			uploader = cld
		}
	} else {
		logger.Info("upload_disabled", "reason", "CLOUDINARY_URL not set")
	}

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}
	authHTTP := &httpserver.AuthHTTP{Svc: authSvc, SecureCookies: cfg.SecureCookies}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.SecureCookies
	csrfCfg.SkipPrefixes = []string{"/api/auth/"}
	csrfCfg.SkipPaths = []string{"/api/upload"}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLoggerWithConfig(logger, loggingmw.Config{
		Quiet: []string{"/health/live", "/health/ready"},
		Slow:  2 * time.Second,
	}))
	e.Use(echomw.SecureWithConfig(echomw.DefaultSecureConfig))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: len(cfg.CORSOrigins) > 0,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept, csrfCfg.HeaderName},
	}))

	httpserver.Register(e, &httpserver.Deps{
		DB:    gdb,
		Auth:  auth.New(cfg.JWTAccessSecret, authSvc, cfg.SecureCookies),
		Cache: cache,
		CSRF:  &csrfCfg,

		AuthHTTP:        authHTTP,
		AppointmentHTTP: &httpserver.AppointmentHTTP{Svc: &service.AppointmentService{Repo: r, SMS: sms, Events: events}},
		DoctorHTTP:      &httpserver.DoctorHTTP{Svc: &service.DoctorService{Repo: r}, Auth: authHTTP, Cache: cache},
		BlogHTTP:        &httpserver.BlogHTTP{Svc: &service.BlogService{Repo: r, Indexer: indexer}, Cache: cache},
		CommentHTTP:     &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: r}, Cache: cache},
		ForumHTTP:       &httpserver.ForumHTTP{Svc: &service.ForumService{Repo: r, Events: events}, Cache: cache},
		ShopHTTP:        &httpserver.ShopHTTP{Svc: &service.ShopService{Repo: r, Indexer: indexer, Events: events}, Cache: cache},
		CourseHTTP:      &httpserver.CourseHTTP{Svc: &service.CourseService{Repo: r, Events: events}, Cache: cache},
		ContentHTTP:     &httpserver.ContentHTTP{Svc: &service.ContentService{Repo: r}, Cache: cache},
		UploadHTTP:      &httpserver.UploadHTTP{Svc: &service.UploadService{Uploader: uploader}},
		SearchHTTP:      &httpserver.SearchHTTP{Svc: &service.SearchService{Repo: r, Searcher: searcher}},
		MailHTTP:        &httpserver.MailHTTP{Svc: &service.MailService{Mailer: mailer}},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	stopBackground()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka_consumer_close_error", "error", err)
		}
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("server_stopped")
}
