package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"roomlink/internal/adapter/api"
	"roomlink/internal/adapter/api/handler"
	apimiddleware "roomlink/internal/adapter/api/middleware"
	"roomlink/internal/adapter/api/router"
	"roomlink/internal/adapter/repository"
	"roomlink/internal/domain/service"
	"roomlink/internal/infrastructure/cache"
	"roomlink/internal/infrastructure/firebase"
	"roomlink/internal/infrastructure/mail"
	"roomlink/internal/infrastructure/mongodb"
	"roomlink/internal/infrastructure/ratelimit"
	"roomlink/internal/infrastructure/storage"
	"roomlink/internal/infrastructure/token"
	"roomlink/internal/infrastructure/websocket"
	"roomlink/internal/usecase"
	"roomlink/pkg/config"
	"roomlink/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.Environment, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	switch {
	case cfg.FirebaseServiceAccountJSON != "":
		logger.Info("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)))
	case cfg.FirebaseServiceAccountPath != "":
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
			logger.L().Fatal().Err(err).Msgf("Service account file does not exist: %s", cfg.FirebaseServiceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseServiceAccountPath))
	default:
		logger.Info("Using application default credentials")
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("Failed to initialize Firebase")
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("Failed to initialize Firebase Auth")
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("Failed to initialize Firebase Messaging")
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("Failed to create Firestore client")
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("Failed to initialize Cloud Storage")
	}
	defer storageClient.Close()

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	var verifier service.TokenVerifier = firebaseAuthClient
	if cfg.FirebaseAuthMode == "jwks" {
		jwksVerifier, err := firebase.NewJWKSVerifier(cfg.FirebaseProject)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("Failed to load Firebase JWKS")
		}
		defer jwksVerifier.Close()
		verifier = jwksVerifier
		logger.Info("Verifying ID tokens against Google JWKS")
	}

	healthChecks := map[string]handler.HealthCheck{
		"firestore": func(ctx context.Context) error {
			_, err := firestoreClient.Collection("users").Limit(1).Documents(ctx).Next()
			if err == iterator.Done {
				return nil
			}
			return err
		},
	}

	var listingCache cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, listing cache disabled: %v", err)
		} else {
			listingCache = redisStore
			healthChecks["redis"] = redisStore.Ping
		}
	}
	defer listingCache.Close()

	var mailer service.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		logger.Warn("SMTP_HOST not set, emails will only be logged")
	}

	if cfg.PaystackSecretKey == "" {
		logger.Warn("PAYSTACK_SECRET_KEY not set, payments and webhooks will fail")
	}
	paystack := service.NewPaystackPaymentService(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.PaystackPreferredBank)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(10*time.Minute, ctx.Done())

	wsManager := websocket.NewManager()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	otpRepo := repository.NewFirestoreOTPRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	commentRepo := repository.NewFirestoreCommentRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	reportRepo := repository.NewFirestoreReportRepository(firestoreClient)
	paymentRepo := repository.NewFirestorePaymentRepository(firestoreClient)

	notificationUseCase := usecase.NewNotificationUseCase(userRepo, firebase.NewFCMSender(messagingClient), mailer, paystack)
	authUseCase := usecase.NewAuthUseCase(userRepo, otpRepo, firebaseAuthClient, mailer, notificationUseCase)
	userUseCase := usecase.NewUserUseCase(userRepo, storageClient)
	listingUseCase := usecase.NewListingUseCase(
		listingRepo,
		userRepo,
		storageClient,
		listingCache,
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		limiter,
		cfg.FreeListingLimit,
	)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, userRepo, listingRepo)
	chatUseCase := usecase.NewChatUseCase(messageRepo, userRepo, storageClient, wsManager, notificationUseCase, limiter)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, listingRepo, userRepo, notificationUseCase, limiter)
	reportUseCase := usecase.NewReportUseCase(reportRepo, listingRepo, userRepo, limiter)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, userRepo, paystack, cfg.PaystackCallbackURL, cfg.AdUnlockAmount)

	// Writes that change listing documents outside the listing usecase.
	reviewUseCase.OnListingRatingChanged(listingUseCase.Invalidate)
	reportUseCase.OnListingHidden(listingUseCase.Invalidate)

	wsManager.SetInboundHandler(chatUseCase)
	wsManager.Start(ctx)

	handler.Setup(
		authUseCase,
		userUseCase,
		listingUseCase,
		commentUseCase,
		reviewUseCase,
		reportUseCase,
		chatUseCase,
		paymentUseCase,
		cfg.PaystackSecretKey,
	)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("12M"))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier, authUseCase)

	router.Setup(e, authMiddleware, limiter)
	router.SetupWebSocketRouter(e, handler.NewWebSocketHandler(wsManager, authMiddleware))

	switch {
	case cfg.MongoURI == "" || !cfg.LegacyAPI:
	case !cfg.LegacyJWTConfigured():
		logger.Warn("JWT_SECRET is empty or the default placeholder, legacy /api surface not mounted")
	default:
		mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer mongodb.Close(mongoClient)

		db := mongoClient.Database(cfg.MongoDB)
		if err := repository.EnsureAccountIndexes(ctx, db); err != nil {
			logger.Warn("Failed to ensure account indexes: %v", err)
		}

		tokens := token.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
		legacyUseCase := usecase.NewLegacyUseCase(
			repository.NewMongoAccountRepository(db),
			repository.NewMongoDirectMessageRepository(db),
			tokens,
		)
		router.SetupLegacyRouter(e, handler.NewLegacyHandler(legacyUseCase), tokens, limiter)
		healthChecks["mongodb"] = func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		}
		logger.Info("Legacy /api surface mounted")
	}

	router.SetupHealthRouter(e, handler.NewHealthHandler(healthChecks))

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	notificationUseCase.Wait()
}
