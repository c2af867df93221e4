package handlers

import (
	"log"
	"net/http"

	"github.com/Sanuthi50/Supercar-predictor/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles database administration requests
type AdminHandler struct {
	db repository.DB
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db repository.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// InitDatabase handles POST /database/init. It creates missing tables
// and indexes; existing data is left untouched.
func (h *AdminHandler) InitDatabase(c *gin.Context) {
	if err := repository.CreateSchema(c.Request.Context(), h.db); err != nil {
		log.Printf("Database initialization error: %v", err)
		respondError(c, http.StatusInternalServerError, "DB_INIT_FAILED", "Database initialization failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Database initialized successfully",
		"request_id": requestID(c),
	})
}
