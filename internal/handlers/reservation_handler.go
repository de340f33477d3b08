package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/middleware"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/sirupsen/logrus"
)

// ReservationHandler serves the four reservation partitions and their actions
type ReservationHandler struct {
	logger *logrus.Logger
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{logger: logger}
}

// TransitionResponse is returned after a reservation changed status
type TransitionResponse struct {
	Message string                  `json:"message"`
	Page    services.PartitionPage `json:"page"`
}

// List handles GET /api/v1/reservations/:status
// @Summary List a reservation partition
// @Description Returns one page of the partition. refresh=1 re-fetches it from the server; q filters and page paginates.
// @Tags Reservations
// @Produce json
// @Param status path string true "pending, confirmed, cancelled or completed"
// @Param refresh query bool false "re-fetch from the server"
// @Param q query string false "search text"
// @Param page query int false "page number"
// @Success 200 {object} services.PartitionPage
// @Failure 400 {object} ErrorResponse
// @Router /reservations/{status} [get]
func (h *ReservationHandler) List(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	status, err := models.ParseReservationStatus(c.Param("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	partition := ws.Lifecycle.Snapshot(status)
	if c.Query("refresh") == "1" || c.Query("refresh") == "true" || !partition.Loaded {
		partition, err = ws.Lifecycle.FetchPartition(c.Request.Context(), status)
		if err != nil && !partition.Loaded {
			respondError(c, h.logger, err)
			return
		}
	}

	view := ws.UpdateView(status, func(v *services.PartitionView) {
		if q, ok := c.GetQuery("q"); ok && q != v.Query {
			v.SetQuery(q)
		}
		n := len(services.FilterReservations(partition.Reservations, v.Query))
		if p, err := strconv.Atoi(c.Query("page")); err == nil {
			v.SetPage(p, n)
		}
		// the partition may have shrunk since the page was chosen
		v.Clamp(n)
	})

	c.JSON(http.StatusOK, view.Render(partition))
}

// Create handles POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)

	draft := models.NewReservationDraft()
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return
	}

	message, err := ws.Lifecycle.Create(c.Request.Context(), draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: message})
}

// Transition returns the handler for POST /api/v1/reservations/:id/<action>
func (h *ReservationHandler) Transition(action models.ReservationAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := middleware.MustGetWorkspace(c)
		id := c.Param("id")

		message, err := ws.Lifecycle.Transition(c.Request.Context(), action, id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}

		h.logger.WithFields(logrus.Fields{
			"session_id":     ws.ID.String(),
			"reservation_id": id,
			"action":         action,
		}).Info("Reservation status changed")

		origin := models.OriginStatus(action)
		partition := ws.Lifecycle.Snapshot(origin)
		view := ws.UpdateView(origin, func(v *services.PartitionView) {
			v.Clamp(len(services.FilterReservations(partition.Reservations, v.Query)))
		})
		c.JSON(http.StatusOK, TransitionResponse{
			Message: message,
			Page:    view.Render(partition),
		})
	}
}

// StatusRouteTransition serves POST /reservations/:status/<action>. gin shares
// the first segment with GET /reservations/:status, so the reservation id
// arrives under the status name and is renamed to id before Transition runs.
func (h *ReservationHandler) StatusRouteTransition(action models.ReservationAction) gin.HandlerFunc {
	transition := h.Transition(action)
	return func(c *gin.Context) {
		for i := range c.Params {
			if c.Params[i].Key == "status" {
				c.Params[i].Key = "id"
			}
		}
		transition(c)
	}
}

// Catalogue handles GET /api/v1/reservations/cottages
func (h *ReservationHandler) Catalogue(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cottages": models.CottageCatalogue,
		"draft":    models.NewReservationDraft(),
	})
}
