package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	intconfig "github.com/knexpress/dev-kn-system-sub001/internal/config"
	"github.com/knexpress/dev-kn-system-sub001/internal/http/middleware"
	"github.com/knexpress/dev-kn-system-sub001/internal/models"
	"github.com/knexpress/dev-kn-system-sub001/internal/repositories"
	"github.com/knexpress/dev-kn-system-sub001/internal/services"
)

// GET /api/billing-requests?limit=50
func ListBillingRequests(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	repo := repositories.BillingRepo{DB: intconfig.DB}
	items, err := repo.List(limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if items == nil {
		items = []models.BillingRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"billing_requests": items})
}

// GET /api/billing-requests/:id
func GetBillingRequest(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	repo := repositories.BillingRepo{DB: intconfig.DB}
	br, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, br)
}

// GET /api/billing-requests/track/:code
// Looks the request up by tracking code or retained alias.
func TrackBillingRequest(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		RespondError(c, http.StatusBadRequest, "tracking code is required", nil)
		return
	}

	repo := repositories.BillingRepo{DB: intconfig.DB}
	br, err := repo.GetByTracking(code)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, br)
}

// GET /api/billing-requests/:id/invoice
// Streams the invoice PDF for download.
func DownloadInvoice(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	svc := services.DocsService{
		Billing:   repositories.BillingRepo{DB: intconfig.DB},
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
