package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/gin-gonic/gin"
)

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id %q", c.Param("id"))
	}
	return id, nil
}

type createSlotRequest struct {
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	Capacity     int       `json:"capacity"`
	TeachingMode string    `json:"teaching_mode" binding:"required"`
	LessonType   string    `json:"lesson_type" binding:"required"`
	Price        int       `json:"price"`
	Location     *string   `json:"location"`
	SubjectID    *int64    `json:"subject_id"`
}

func (s *Server) createSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondValidation(c, err)
		return
	}

	slot, err := s.slots.CreateSlot(c.Request.Context(), callerFrom(c), service.CreateSlotInput{
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Capacity:     req.Capacity,
		TeachingMode: model.TeachingMode(req.TeachingMode),
		LessonType:   model.LessonType(req.LessonType),
		Price:        req.Price,
		Location:     req.Location,
		SubjectID:    req.SubjectID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

func (s *Server) deleteSlot(c *gin.Context) {
	slotID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.slots.DeleteSlot(c.Request.Context(), callerFrom(c), slotID); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) listOwnerSlots(c *gin.Context) {
	slots, err := s.availability.OwnerCalendar(c.Request.Context(), callerFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (s *Server) listPublicSlots(c *gin.Context) {
	ownerID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	includeBooked := c.Query("include_booked") == "true"

	slots, err := s.availability.PublicCalendar(c.Request.Context(), ownerID, includeBooked)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (s *Server) getSlotDetails(c *gin.Context) {
	slotID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	details, err := s.bookings.GetSlotDetails(c.Request.Context(), callerFrom(c), slotID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

type bookSlotRequest struct {
	SubjectID *int64 `json:"subject_id"`
	Note      string `json:"note"`
}

func (s *Server) bookSlot(c *gin.Context) {
	slotID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	// Тело необязательно: групповой слот бронируется без параметров
	var req bookSlotRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondValidation(c, err)
			return
		}
	}

	booking, err := s.bookings.BookSlot(c.Request.Context(), callerFrom(c), slotID, req.SubjectID, req.Note)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (s *Server) cancelBooking(c *gin.Context) {
	slotID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.bookings.CancelBooking(c.Request.Context(), callerFrom(c), slotID); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) listStudentBookings(c *gin.Context) {
	bookings, err := s.availability.StudentCalendar(c.Request.Context(), callerFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (s *Server) getBookingDetails(c *gin.Context) {
	bookingID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	booking, err := s.bookings.GetBookingDetails(c.Request.Context(), callerFrom(c), bookingID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (s *Server) getRecord(c *gin.Context) {
	bookingID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	record, err := s.records.GetRecord(c.Request.Context(), callerFrom(c), bookingID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

type studentNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

func (s *Server) writeStudentNotes(c *gin.Context) {
	bookingID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req studentNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondValidation(c, err)
		return
	}

	if err := s.records.WriteStudentNotes(c.Request.Context(), callerFrom(c), bookingID, req.Notes); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type instructorSummaryRequest struct {
	Summary  string `json:"summary"`
	Homework string `json:"homework"`
}

func (s *Server) writeInstructorSummary(c *gin.Context) {
	bookingID, err := idParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req instructorSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondValidation(c, err)
		return
	}

	if err := s.records.WriteInstructorSummary(c.Request.Context(), callerFrom(c), bookingID, req.Summary, req.Homework); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
