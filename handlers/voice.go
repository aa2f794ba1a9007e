// File: handlers/voice.go
package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingRepo "frontdesk/database/repository/booking"
	"frontdesk/models"
	"frontdesk/services/dialog"
	"frontdesk/services/session"
	"frontdesk/services/telephony"
	"frontdesk/services/voice"
)

// VoiceHandler binds the telephony webhooks to the dialog engine.
type VoiceHandler struct {
	Sessions session.Store
	Locks    *session.Keyed
	Engine   dialog.Engine
	Renderer voice.Renderer
	Caller   telephony.CallPlacer
	Bookings bookingRepo.BookingRepository
	BaseURL  string
	Logger   *zap.Logger
}

func NewVoiceHandler(store session.Store, engine dialog.Engine, renderer voice.Renderer, caller telephony.CallPlacer, bookings bookingRepo.BookingRepository, baseURL string, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		Sessions: store,
		Locks:    session.NewKeyed(),
		Engine:   engine,
		Renderer: renderer,
		Caller:   caller,
		Bookings: bookings,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Logger:   logger,
	}
}

// callerID resolves the caller identity from the query parameter the
// outbound flow uses, or the webhook form fields Twilio sends.
func callerID(c *gin.Context) string {
	if phone := c.Query("phone"); phone != "" {
		return phone
	}
	if from := c.PostForm("From"); from != "" {
		return from
	}
	if caller := c.PostForm("Caller"); caller != "" {
		return caller
	}
	return "unknown"
}

func (h *VoiceHandler) gatherAction(phone string) string {
	return fmt.Sprintf("%s/gather?phone=%s", h.BaseURL, url.QueryEscape(phone))
}

// sayEscape keeps prompt text safe inside a TwiML <Say> element.
var sayEscape = strings.NewReplacer("&", "and", "<", "", ">", "")

// respond renders the prompt as TwiML: <Play> when the renderer produced
// an audio URL, <Say> otherwise, followed by a speech <Gather> or a
// <Hangup> when the conversation is over.
func (h *VoiceHandler) respond(c *gin.Context, text, action string, hangup bool) {
	audioURL := h.Renderer.Render(c.Request.Context(), text)

	var sb strings.Builder
	sb.WriteString("<Response>")
	if audioURL != "" && strings.HasPrefix(strings.ToLower(audioURL), "http") {
		sb.WriteString("<Play>" + audioURL + "</Play>")
	} else {
		sb.WriteString("<Say>" + sayEscape.Replace(text) + "</Say>")
	}
	if hangup {
		sb.WriteString("<Hangup/>")
	} else {
		sb.WriteString(fmt.Sprintf(`<Gather input="speech" action="%s" method="POST" timeout="6" speechTimeout="auto"/>`, action))
	}
	sb.WriteString("</Response>")

	c.Data(http.StatusOK, "application/xml", []byte(sb.String()))
}

// IncomingCall answers a caller-initiated call with the greeting.
func (h *VoiceHandler) IncomingCall(c *gin.Context) {
	caller := callerID(c)
	ctx := c.Request.Context()

	h.Locks.Do(caller, func() {
		sess, err := h.Sessions.GetOrCreate(ctx, caller)
		if err != nil {
			h.Logger.Warn("session load failed on incoming call", zap.Error(err))
			sess = models.NewSession(caller)
		}
		if err := h.Sessions.Put(ctx, sess); err != nil {
			h.Logger.Warn("session save failed on incoming call", zap.Error(err))
		}
	})

	h.respond(c, dialog.GreetingPrompt(), h.gatherAction(caller), false)
}

// OutboundVoice is the first webhook of an operator-triggered call; the
// session was seeded by TriggerCall.
func (h *VoiceHandler) OutboundVoice(c *gin.Context) {
	caller := callerID(c)

	var name, service string
	h.Locks.Do(caller, func() {
		sess, err := h.Sessions.GetOrCreate(c.Request.Context(), caller)
		if err != nil {
			h.Logger.Warn("session load failed on outbound call", zap.Error(err))
			return
		}
		name, service = sess.Name, sess.Service
	})

	h.respond(c, dialog.OutboundGreetingPrompt(name, service), h.gatherAction(caller), false)
}

// Gather handles one conversation turn: transcribed speech in, next
// prompt out. Turns for the same caller are serialized; turns for
// distinct callers run concurrently.
func (h *VoiceHandler) Gather(c *gin.Context) {
	caller := callerID(c)
	utterance := strings.TrimSpace(c.PostForm("SpeechResult"))
	ctx := c.Request.Context()

	var result models.TurnResult
	h.Locks.Do(caller, func() {
		sess, err := h.Sessions.GetOrCreate(ctx, caller)
		if err != nil {
			h.Logger.Warn("session load failed, starting fresh", zap.String("caller", caller), zap.Error(err))
			sess = models.NewSession(caller)
		}

		result = h.Engine.HandleTurn(ctx, sess, utterance)

		if err := h.Sessions.Put(ctx, sess); err != nil {
			h.Logger.Warn("session save failed", zap.String("caller", caller), zap.Error(err))
		}
	})

	h.respond(c, result.Prompt, h.gatherAction(caller), !result.Continue)
}

// TriggerCall seeds a session from an operator request and places the
// outbound call.
func (h *VoiceHandler) TriggerCall(c *gin.Context) {
	var req models.TriggerCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess := models.NewSession(req.Phone)
	sess.Name = req.Name
	sess.Email = req.Email
	sess.City = req.City
	sess.Address = req.Address
	sess.Service = req.Service
	sess.Message = req.Message

	h.Locks.Do(req.Phone, func() {
		if err := h.Sessions.Put(ctx, sess); err != nil {
			h.Logger.Warn("failed to seed session", zap.String("caller", req.Phone), zap.Error(err))
		}
	})

	answerURL := fmt.Sprintf("%s/voice?phone=%s", h.BaseURL, url.QueryEscape(req.Phone))
	sid, err := h.Caller.PlaceCall(ctx, req.Phone, answerURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sid": sid})
}

// ConfirmTime lets the caller restate their booking time at the end of a
// call; the call hangs up either way.
func (h *VoiceHandler) ConfirmTime(c *gin.Context) {
	caller := callerID(c)
	userTime := strings.TrimSpace(c.PostForm("SpeechResult"))

	text := "We didn't catch a time. Goodbye!"
	if userTime != "" {
		if err := h.Bookings.UpdateBookingTime(c.Request.Context(), caller, userTime); err != nil {
			h.Logger.Warn("booking time update failed", zap.String("caller", caller), zap.Error(err))
		}
		text = fmt.Sprintf("Thank you. We've scheduled your service for %s. Goodbye!", userTime)
	}
	h.respond(c, text, "", true)
}
