package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	intconfig "github.com/knexpress/dev-kn-system-sub001/internal/config"
	"github.com/knexpress/dev-kn-system-sub001/internal/http/middleware"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
	"github.com/knexpress/dev-kn-system-sub001/internal/repositories"
	"github.com/knexpress/dev-kn-system-sub001/internal/services"
	"github.com/knexpress/dev-kn-system-sub001/internal/utils"
)

// POST /api/bookings
// Accepts the raw intake payload as-is; the interesting columns are
// extracted on write, everything else stays inside the payload blob.
func CreateBooking(c *gin.Context) {
	var payload map[string]any
	if !BindJSONOrError(c, &payload) {
		return
	}

	repo := repositories.BookingRepo{DB: intconfig.DB}
	id, err := repo.Create(payload)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "bookings", "created",
		fmt.Sprintf("booking_id=%d", id))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	repo := repositories.BookingRepo{DB: intconfig.DB}
	booking, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GET /api/bookings?status=reviewed&date=2026-08-30&limit=50
func ListBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	date := ""
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
			return
		}
		date = utils.FormatDate(parsed)
	}

	repo := repositories.BookingRepo{DB: intconfig.DB}
	bookings, err := repo.ListByStatus(c.Query("status"), date, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.BookingRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// PUT /api/bookings/:id/review
// Marks the booking reviewed by the authenticated user.
func ReviewBooking(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	repo := repositories.BookingRepo{DB: intconfig.DB}
	if _, err := repo.GetByID(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	reviewerID := middleware.GetUserID(c)
	if err := repo.MarkReviewed(id, reviewerID); err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "bookings", "reviewed",
		fmt.Sprintf("booking_id=%d reviewer_id=%d", id, reviewerID))
	c.JSON(http.StatusOK, gin.H{"status": "reviewed"})
}

// POST /api/bookings/:id/convert
// Runs the conversion pipeline. Re-invoking for a converted booking is
// safe and returns the existing billing request.
func ConvertBooking(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	svc := newConversionService(middleware.GetRequestID(c))
	br, err := svc.ConvertBooking(id, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, br)
}

// newConversionService wires the pipeline against the live database. The
// handlers stay thin; everything interesting lives in the service.
func newConversionService(requestID string) services.ConversionService {
	billing := repositories.BillingRepo{DB: intconfig.DB}
	return services.ConversionService{
		Bookings: repositories.BookingRepo{DB: intconfig.DB},
		Billing:  billing,
		Identifiers: services.IdentifierService{
			Billing:   billing,
			RequestID: requestID,
		},
		Outbox:    repositories.OutboxRepo{DB: intconfig.DB},
		Party:     defaultPartyResolver,
		RequestID: requestID,
	}
}

// defaultPartyResolver is process-wide so the first successful employee
// lookup is cached across requests.
var defaultPartyResolver = &services.EmployeePartyResolver{}

// InitResolvers binds the shared resolvers to the connected database.
func InitResolvers() {
	defaultPartyResolver.Repo = repositories.EmployeeRepo{DB: intconfig.DB}
}
