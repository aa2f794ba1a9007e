// File: handlers/admin.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"frontdesk/config"
	bookingRepo "frontdesk/database/repository/booking"
	knowledgeRepo "frontdesk/database/repository/knowledge"
	"frontdesk/models"
	"frontdesk/utils"
)

const adminTokenTTL = 12 * time.Hour

// AdminHandler exposes the operator surface: availability slots,
// bookings, the interaction audit trail, and knowledge ingestion.
type AdminHandler struct {
	Knowledge knowledgeRepo.KnowledgeRepository
	Bookings  bookingRepo.BookingRepository
	Logger    *zap.Logger
}

func NewAdminHandler(kn knowledgeRepo.KnowledgeRepository, bk bookingRepo.BookingRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Knowledge: kn, Bookings: bk, Logger: logger}
}

// Login checks the configured admin password and issues a bearer token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	hash := config.AppConfig.AdminPasswordHash
	if hash == "" {
		utils.JSONError(c, http.StatusForbidden, "admin login disabled", "no admin password configured")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	token, err := utils.GenerateAdminToken("admin", adminTokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AdminHandler) ListSlots(c *gin.Context) {
	slots, err := h.Bookings.ListSlots(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

type slotRequest struct {
	Day  string `json:"day" binding:"required"`
	Slot string `json:"slot" binding:"required"`
}

// OpenSlot marks a (day, slot) pair bookable.
func (h *AdminHandler) OpenSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "day and slot required", err.Error())
		return
	}
	if err := h.Bookings.SetSlotAvailable(c.Request.Context(), req.Day, req.Slot); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to open slot", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CloseSlot marks a (day, slot) pair unavailable.
func (h *AdminHandler) CloseSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "day and slot required", err.Error())
		return
	}
	if err := h.Bookings.MarkSlotTaken(c.Request.Context(), req.Day, req.Slot); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to close slot", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Bookings.ListBookings(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *AdminHandler) ListInteractions(c *gin.Context) {
	entries, err := h.Bookings.ListInteractions(c.Request.Context(), 200)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list interactions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": entries})
}

// UpsertService is the ingestion surface for the service catalogue; the
// scraper (an external collaborator) posts records here.
func (h *AdminHandler) UpsertService(c *gin.Context) {
	var rec models.ServiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil || rec.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid service record", "name is required")
		return
	}
	if err := h.Knowledge.UpsertService(c.Request.Context(), rec); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to upsert service", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpsertFAQ ingests one question/answer pair.
func (h *AdminHandler) UpsertFAQ(c *gin.Context) {
	var rec models.FaqRecord
	if err := c.ShouldBindJSON(&rec); err != nil || rec.Question == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid FAQ record", "question is required")
		return
	}
	if err := h.Knowledge.UpsertFAQ(c.Request.Context(), rec); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to upsert FAQ", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) ListServices(c *gin.Context) {
	services, err := h.Knowledge.ListServices(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *AdminHandler) ListFAQs(c *gin.Context) {
	faqs, err := h.Knowledge.ListFAQs(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list FAQs", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs})
}
