package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fieldbook/internal/database"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/modules/bookingpackage"
	"fieldbook/internal/modules/cancellation"
	"fieldbook/internal/modules/payment"
	"fieldbook/internal/notification"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	paymentSecret := os.Getenv("PAYMENT_CHECKSUM_SECRET")
	if paymentSecret == "" {
		log.Fatal("PAYMENT_CHECKSUM_SECRET is empty")
	}
	qrDir := envOr("QR_OUTPUT_DIR", "uploads/qr")
	qrBaseURL := envOr("QR_BASE_URL", "/static/qr")
	port := envOr("PORT", "8080")

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	accountRepo := repository.NewBankAccountRepository(db)

	j := jwtsvc.New(jwtSecret, 24*time.Hour)
	gateway := notification.NewQRGateway(qrDir, qrBaseURL)

	bookingService := booking.NewService(bookingRepo, scheduleRepo, fieldRepo)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(bookingRepo, packageRepo, paymentSecret, log.Printf)
	paymentHandler := payment.NewHandler(paymentService)

	cancellationService := cancellation.NewService(db, accountRepo, gateway)
	cancellationHandler := cancellation.NewHandler(cancellationService)

	packageService := bookingpackage.NewService(db, accountRepo, gateway)
	packageHandler := bookingpackage.NewHandler(packageService)

	r := gin.New()
	r.Use(middleware.CORS(), middleware.ErrorLogger())
	r.Static("/static/qr", qrDir)

	root := r.Group("/")
	{
		// payment callbacks come from the gateway, not a logged-in user
		paymentHandler.RegisterRoutes(root)

		protected := root.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			cancellationHandler.RegisterRoutes(protected)
			packageHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
