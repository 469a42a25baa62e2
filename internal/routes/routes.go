package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sharpcutlabs/booking-api/internal/audit"
	"github.com/sharpcutlabs/booking-api/internal/config"
	"github.com/sharpcutlabs/booking-api/internal/handlers"
	infraRepo "github.com/sharpcutlabs/booking-api/internal/infra/repository"
	"github.com/sharpcutlabs/booking-api/internal/metrics"
	"github.com/sharpcutlabs/booking-api/internal/middleware"
	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/notify"
	"github.com/sharpcutlabs/booking-api/internal/storage"
	ucBooking "github.com/sharpcutlabs/booking-api/internal/usecase/booking"
	ucReminder "github.com/sharpcutlabs/booking-api/internal/usecase/reminder"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	mailer := notify.NewLogMailer(log)
	mailDispatcher := notify.NewDispatcher(mailer, log)

	m := metrics.New("booking")

	photoStore := storage.NewPhotoStore(cfg)

	// ======================================================
	// USE CASES
	// ======================================================
	slotsUC := ucBooking.NewGetAvailableSlots(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		mailDispatcher,
		auditDispatcher,
		m,
	)

	createGuestBookingUC := ucBooking.NewCreateGuestBooking(
		bookingRepo,
		mailDispatcher,
		auditDispatcher,
		m,
	)

	updateStatusUC := ucBooking.NewUpdateBookingStatus(
		bookingRepo,
		auditDispatcher,
	)

	listBookingsUC := ucBooking.NewListBookings(bookingRepo)

	sweepUC := ucReminder.NewSweep(
		bookingRepo,
		mailer,
		rdb,
		log,
		m,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	publicHandler := handlers.NewPublicHandler(db, bookingRepo, slotsUC, createGuestBookingUC)
	calendarHandler := handlers.NewCalendarHandler(bookingRepo)
	bookingHandler := handlers.NewBookingHandler(bookingRepo, createBookingUC, updateStatusUC)
	barberBookingHandler := handlers.NewBarberBookingHandler(db, listBookingsUC, updateStatusUC)
	workHoursHandler := handlers.NewWorkHoursHandler(db)
	serviceHandler := handlers.NewServiceHandler(db, auditDispatcher)
	branchHandler := handlers.NewBranchHandler(db, auditDispatcher)
	adminHandler := handlers.NewAdminHandler(db)
	reminderHandler := handlers.NewReminderHandler(cfg, sweepUC)
	mediaHandler := handlers.NewMediaHandler(db, photoStore)

	// ======================================================
	// OBSERVABILITY
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/branches", publicHandler.ListBranches)
			publicAPI.GET("/branches/:id/services", publicHandler.ListServices)
			publicAPI.GET("/branches/:id/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/barbers", publicHandler.ListAllBarbers)
			publicAPI.GET("/barbers/:id", publicHandler.GetBarber)
			publicAPI.GET("/availability", publicHandler.Availability)

			publicAPI.POST("/guest-bookings", publicHandler.CreateGuestBooking)
			publicAPI.GET("/guest-bookings/:reference", publicHandler.GetGuestBooking)
			publicAPI.GET("/guest-bookings/:reference/calendar.ics", calendarHandler.GuestBookingICS)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// CRON
		// ------------------------------
		api.POST("/cron/reminders", reminderHandler.Run)

		// ------------------------------
		// CUSTOMER
		// ------------------------------
		me := api.Group("/me")
		me.Use(middleware.AuthMiddleware(cfg))
		{
			me.GET("", meHandler.GetMe)

			me.GET("/bookings", bookingHandler.List)
			me.POST("/bookings", bookingHandler.Create)
			me.GET("/bookings/:id", bookingHandler.Get)
			me.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
		}

		// ------------------------------
		// BRANCH STAFF (manager-gated inside the handler)
		// ------------------------------
		branches := api.Group("/branches")
		branches.Use(middleware.AuthMiddleware(cfg))
		{
			branches.GET("/:id/staff", branchHandler.ListStaff)
			branches.POST("/:id/staff", branchHandler.AssignStaff)
		}

		// ------------------------------
		// BARBER
		// ------------------------------
		barber := api.Group("/barber")
		barber.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleBarber))
		{
			barber.GET("/bookings", barberBookingHandler.ListByDate)
			barber.GET("/bookings/month", barberBookingHandler.ListByMonth)
			barber.PATCH("/bookings/:id/status", barberBookingHandler.UpdateStatus)

			barber.GET("/work-hours", workHoursHandler.Get)
			barber.PUT("/work-hours", workHoursHandler.Update)

			barber.GET("/services", serviceHandler.List)
			barber.POST("/services", serviceHandler.Create)
			barber.PATCH("/services/:id", serviceHandler.Update)
			barber.DELETE("/services/:id", serviceHandler.Delete)

			barber.POST("/photo", mediaHandler.UploadBarberPhoto)

			barber.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/branches", branchHandler.List)
			admin.POST("/branches", branchHandler.Create)
			admin.PATCH("/branches/:id", branchHandler.Update)

			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/bookings", adminHandler.ListBookings)
			admin.GET("/bookings/export", adminHandler.ExportBookings)
			admin.GET("/stats", adminHandler.Stats)
		}
	}
}
