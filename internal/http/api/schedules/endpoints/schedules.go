package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/cache"
	"github.com/sushant-kumar17/yt-streamer/internal/db"
	"github.com/sushant-kumar17/yt-streamer/internal/http/api"
	"github.com/sushant-kumar17/yt-streamer/internal/http/api/schedules/packets"
	"github.com/sushant-kumar17/yt-streamer/internal/http/middleware"
	"github.com/sushant-kumar17/yt-streamer/internal/model"
	"github.com/sushant-kumar17/yt-streamer/internal/notify"
)

type ScheduleController struct {
	store  db.Store
	cache  *cache.ScheduleCache
	events *notify.Publisher
}

func NewScheduleController(store db.Store, c *cache.ScheduleCache, events *notify.Publisher) *ScheduleController {
	return &ScheduleController{store: store, cache: c, events: events}
}

// QueryModule mounts the public calendar read endpoint. The schedule list is
// viewable without a token.
func QueryModule(store db.Store, c *cache.ScheduleCache) api.Module {
	ctl := NewScheduleController(store, c, nil)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
	})
}

// ControlModule mounts the mutating endpoints (token required).
func ControlModule(store db.Store, c *cache.ScheduleCache, events *notify.Publisher) api.Module {
	ctl := NewScheduleController(store, c, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/schedule", ctl.createSchedule)
		c.PUT("/schedule/:id", ctl.updateSchedule)
		c.DELETE("/schedule/:id", ctl.cancelSchedule)
		c.POST("/schedule/bulk", ctl.createSchedulesBulk)
	})
}

// GET /schedules?from_date&to_date
func (s *ScheduleController) listSchedules(c *gin.Context) {
	var query packets.ListSchedulesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unfiltered := query.FromDate == "" && query.ToDate == ""
	if unfiltered {
		if cached, ok := s.cache.GetList(c.Request.Context()); ok {
			c.JSON(http.StatusOK, packets.ScheduleListResponse{Data: cached})
			return
		}
	}

	list, err := s.store.ListSchedules(query.FromDate, query.ToDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list schedules"})
		return
	}

	if unfiltered {
		s.cache.SetList(c.Request.Context(), list)
	}
	c.JSON(http.StatusOK, packets.ScheduleListResponse{Data: list})
}

// POST /schedule
func (s *ScheduleController) createSchedule(c *gin.Context) {
	ident, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request packets.CreateScheduleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := s.store.CreateSchedule(model.NewSchedule{
		Date:        request.Date,
		Slot:        request.Slot,
		VideoURL:    request.VideoURL,
		Title:       request.Title,
		Description: request.Description,
		Privacy:     request.Privacy,
		CreatedBy:   &ident.Email,
	})
	if errors.Is(err, db.ErrSlotTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Schedule already exists for this date and slot"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create schedule"})
		return
	}

	log.Info().Str("schedule_id", rec.ID).Str("date", rec.Date).Str("slot", string(rec.Slot)).
		Msg("schedule created")
	s.cache.Invalidate(c.Request.Context())
	s.events.ScheduleChanged("created", rec)

	c.JSON(http.StatusCreated, packets.ScheduleResponse{
		Message: "Schedule created successfully!",
		Data:    rec,
	})
}

// PUT /schedule/:id
func (s *ScheduleController) updateSchedule(c *gin.Context) {
	id := c.Param("id")

	var request packets.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := s.store.GetScheduleByID(id)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load schedule"})
		return
	}

	if request.Status != nil && !current.Status.CanTransitionTo(*request.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("illegal status transition %s -> %s", current.Status, *request.Status),
		})
		return
	}

	rec, err := s.store.UpdateSchedule(id, model.ScheduleUpdate{
		VideoURL:    request.VideoURL,
		Title:       request.Title,
		Description: request.Description,
		Privacy:     request.Privacy,
		Status:      request.Status,
	})
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update schedule"})
		return
	}

	s.cache.Invalidate(c.Request.Context())
	s.events.ScheduleChanged("updated", rec)

	c.JSON(http.StatusOK, packets.ScheduleResponse{
		Message: "Schedule updated successfully",
		Data:    rec,
	})
}

// DELETE /schedule/:id — soft cancel, never a row delete.
func (s *ScheduleController) cancelSchedule(c *gin.Context) {
	id := c.Param("id")

	current, err := s.store.GetScheduleByID(id)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load schedule"})
		return
	}

	if !current.Status.CanTransitionTo(model.StatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("cannot cancel a schedule that is %s", current.Status),
		})
		return
	}

	rec, err := s.store.CancelSchedule(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not cancel schedule"})
		return
	}

	s.cache.Invalidate(c.Request.Context())
	s.events.ScheduleChanged("cancelled", rec)

	c.JSON(http.StatusOK, packets.ScheduleResponse{
		Message: "Schedule cancelled successfully",
		Data:    rec,
	})
}

// POST /schedule/bulk — weekly scheduling helper. All-or-nothing: the first
// slot conflict rolls back the whole batch.
func (s *ScheduleController) createSchedulesBulk(c *gin.Context) {
	ident, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request packets.BulkCreateScheduleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedules array is required"})
		return
	}

	candidates := make([]model.NewSchedule, 0, len(request.Schedules))
	for _, r := range request.Schedules {
		candidates = append(candidates, model.NewSchedule{
			Date:        r.Date,
			Slot:        r.Slot,
			VideoURL:    r.VideoURL,
			Title:       r.Title,
			Description: r.Description,
			Privacy:     r.Privacy,
			CreatedBy:   &ident.Email,
		})
	}

	created, err := s.store.CreateSchedulesBulk(candidates)
	if errors.Is(err, db.ErrSlotTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Schedule already exists for this date and slot"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create schedules"})
		return
	}

	s.cache.Invalidate(c.Request.Context())
	for _, rec := range created {
		s.events.ScheduleChanged("created", rec)
	}

	c.JSON(http.StatusCreated, packets.BulkScheduleResponse{
		Message: fmt.Sprintf("%d schedules created successfully", len(created)),
		Data:    created,
	})
}
