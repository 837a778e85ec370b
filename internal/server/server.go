package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/auth"
	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server HTTP-обвязка ядра. Само ядро про транспорт ничего не знает:
// хендлеры только разбирают запрос, достают Caller и зовут сервисы.
type Server struct {
	engine       *gin.Engine
	addr         string
	logger       *zap.Logger
	tokens       *auth.Manager
	slots        *service.SlotService
	bookings     *service.BookingService
	records      *service.RecordService
	availability *service.AvailabilityService
}

func New(
	addr, env string,
	logger *zap.Logger,
	tokens *auth.Manager,
	slots *service.SlotService,
	bookings *service.BookingService,
	records *service.RecordService,
	availability *service.AvailabilityService,
) *Server {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:       gin.New(),
		addr:         addr,
		logger:       logger,
		tokens:       tokens,
		slots:        slots,
		bookings:     bookings,
		records:      records,
		availability: availability,
	}

	s.engine.Use(gin.Recovery(), s.requestID(), s.accessLog())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api", s.authenticate())
	api.POST("/slots", s.createSlot)
	api.GET("/slots", s.listOwnerSlots)
	api.GET("/slots/:id", s.getSlotDetails)
	api.DELETE("/slots/:id", s.deleteSlot)
	api.POST("/slots/:id/bookings", s.bookSlot)
	api.DELETE("/slots/:id/bookings", s.cancelBooking)
	api.GET("/bookings", s.listStudentBookings)
	api.GET("/bookings/:id", s.getBookingDetails)
	api.GET("/bookings/:id/record", s.getRecord)
	api.PUT("/bookings/:id/record/notes", s.writeStudentNotes)
	api.PUT("/bookings/:id/record/summary", s.writeInstructorSummary)
	api.GET("/instructors/:id/slots", s.listPublicSlots)

	return s
}

// Run запускает сервер и мягко гасит его при отмене контекста
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
