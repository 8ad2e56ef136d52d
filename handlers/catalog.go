package handlers

import (
	"net/http"

	catalogRepo "patitas/database/repository/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes read-only consultation-type lookups for the booking
// UIs.
type CatalogHandler struct {
	Repo catalogRepo.CatalogRepository
}

func NewCatalogHandler(repo catalogRepo.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{Repo: repo}
}

func (h *CatalogHandler) ListConsultationTypesHandler(c *gin.Context) {
	types, err := h.Repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch consultation types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultationTypes": types})
}

func (h *CatalogHandler) GetConsultationTypeHandler(c *gin.Context) {
	ct, err := h.Repo.GetByID(c.Request.Context(), c.Param("typeID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation type not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultationType": ct})
}
