// File: services/dialog/engine.go
package dialog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingRepo "frontdesk/database/repository/booking"
	knowledgeRepo "frontdesk/database/repository/knowledge"
	"frontdesk/models"
	"frontdesk/services/intelligence"
)

const (
	knowledgeLimit = 4
	// maxSilentTurns is how many consecutive empty utterances we accept
	// before treating the line as dead.
	maxSilentTurns = 3
)

// DefaultDialogEngine drives the caller through the booking funnel,
// answering knowledge-base and free-form questions along the way.
type DefaultDialogEngine struct {
	Knowledge knowledgeRepo.KnowledgeRepository
	Bookings  bookingRepo.BookingRepository
	Answerer  intelligence.Answerer
	Audit     AuditLogger
	Logger    *zap.Logger
	Now       func() time.Time // clock, injectable for tests

	stages map[models.Stage]func(ctx context.Context, sess *models.Session, utterance string) models.TurnResult
}

// NewEngine wires a DefaultDialogEngine and its stage transition table.
func NewEngine(kn knowledgeRepo.KnowledgeRepository, bk bookingRepo.BookingRepository, ans intelligence.Answerer, audit AuditLogger, logger *zap.Logger) *DefaultDialogEngine {
	e := &DefaultDialogEngine{
		Knowledge: kn,
		Bookings:  bk,
		Answerer:  ans,
		Audit:     audit,
		Logger:    logger,
		Now:       time.Now,
	}
	e.stages = map[models.Stage]func(context.Context, *models.Session, string) models.TurnResult{
		models.StageAskService:     e.stageAskService,
		models.StageAskBedrooms:    e.stageAskBedrooms,
		models.StageConfirmBooking: e.stageConfirmBooking,
		models.StageAskName:        e.stageAskName,
		models.StageAskCity:        e.stageAskCity,
		models.StageAskAddress:     e.stageAskAddress,
		models.StageAskSlot:        e.stageAskSlot,
	}
	return e
}

// HandleTurn implements the per-turn algorithm, short-circuiting on the
// first matching rule: empty utterance, knowledge hit, funnel dispatch,
// free-form fallback.
func (e *DefaultDialogEngine) HandleTurn(ctx context.Context, sess *models.Session, utterance string) models.TurnResult {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		// Not a funnel step; the caller just stays where they were.
		// Repeated silence ends the call.
		sess.SilentTurns++
		if sess.SilentTurns >= maxSilentTurns {
			return models.TurnResult{Prompt: promptGoodbye, Continue: false}
		}
		return models.TurnResult{Prompt: promptReprompt, Continue: true}
	}
	sess.SilentTurns = 0

	intent := Classify(utterance)
	e.record(sess.CallerID, string(intent), utterance, "")

	// A spoken email address is worth keeping whenever it shows up.
	if sess.Email == "" {
		if email := ExtractEmail(utterance); email != "" {
			sess.Email = email
		}
	}

	// Knowledge lookup runs before funnel dispatch, so a question can
	// interrupt an in-progress funnel without abandoning it.
	if reply, ok := e.knowledgeReply(ctx, utterance); ok {
		e.record(sess.CallerID, "kb_reply", utterance, reply)
		return models.TurnResult{Prompt: reply, Continue: true}
	}

	if intent == models.IntentBooking || sess.Stage.InFunnel() {
		return e.advanceFunnel(ctx, sess, utterance)
	}

	reply := e.Answerer.Answer(ctx, personaPrompt(utterance))
	e.record(sess.CallerID, "ai_reply", utterance, reply)
	return models.TurnResult{Prompt: reply, Continue: true}
}

// knowledgeReply queries the knowledge base and, on any hit, builds the
// spoken summary for the best match. A store failure is a miss.
func (e *DefaultDialogEngine) knowledgeReply(ctx context.Context, utterance string) (string, bool) {
	hits, err := e.Knowledge.Search(ctx, utterance, knowledgeLimit)
	if err != nil {
		e.Logger.Warn("knowledge search failed, treating as miss", zap.Error(err))
		return "", false
	}
	if len(hits) == 0 {
		return "", false
	}
	best := hits[0]
	return knowledgeReply(best.Name, best.Description, best.Price), true
}

func (e *DefaultDialogEngine) advanceFunnel(ctx context.Context, sess *models.Session, utterance string) models.TurnResult {
	if handler, ok := e.stages[sess.Stage]; ok {
		return handler(ctx, sess, utterance)
	}
	// Fresh booking intent from greeting (or a finished session):
	// enter the funnel with the service menu.
	sess.Stage = models.StageAskService
	return models.TurnResult{Prompt: promptMenu, Continue: true}
}

func (e *DefaultDialogEngine) stageAskService(_ context.Context, sess *models.Session, utterance string) models.TurnResult {
	sess.Service = utterance
	sess.Stage = models.StageAskBedrooms
	return models.TurnResult{Prompt: promptBedrooms, Continue: true}
}

func (e *DefaultDialogEngine) stageAskBedrooms(ctx context.Context, sess *models.Session, utterance string) models.TurnResult {
	// An unparsable count is not an error; the flow still advances and
	// the quote falls back to a follow-up by email.
	sess.Bedrooms = parseBedrooms(utterance)
	sess.Stage = models.StageConfirmBooking

	prompt := e.bedroomPriceLine(ctx, sess)
	return models.TurnResult{Prompt: prompt + promptProceed, Continue: true}
}

// bedroomPriceLine re-queries the catalogue for the chosen service and
// looks for a package whose name carries the bedroom count literally
// (e.g. "3 Bedroom Package").
func (e *DefaultDialogEngine) bedroomPriceLine(ctx context.Context, sess *models.Session) string {
	if sess.Bedrooms == 0 || sess.Service == "" {
		return promptQuote
	}
	hits, err := e.Knowledge.Search(ctx, sess.Service, 10)
	if err != nil {
		e.Logger.Warn("price lookup failed", zap.Error(err))
		return promptQuote
	}
	count := strconv.Itoa(sess.Bedrooms)
	for _, h := range hits {
		if h.Price != "" && strings.Contains(h.Name, count) {
			return priceFoundPrompt(h.Name, h.Price)
		}
	}
	return promptQuote
}

func (e *DefaultDialogEngine) stageConfirmBooking(_ context.Context, sess *models.Session, utterance string) models.TurnResult {
	if !isAffirmative(utterance) {
		// Abandon the funnel; nothing is persisted.
		sess.Stage = models.StageGreeting
		return models.TurnResult{Prompt: promptDecline, Continue: true}
	}
	sess.Stage = models.StageAskName
	return models.TurnResult{Prompt: promptName, Continue: true}
}

func (e *DefaultDialogEngine) stageAskName(_ context.Context, sess *models.Session, utterance string) models.TurnResult {
	sess.Name = utterance
	sess.Stage = models.StageAskCity
	return models.TurnResult{Prompt: promptCity, Continue: true}
}

func (e *DefaultDialogEngine) stageAskCity(_ context.Context, sess *models.Session, utterance string) models.TurnResult {
	sess.City = utterance
	sess.Stage = models.StageAskAddress
	return models.TurnResult{Prompt: promptAddress, Continue: true}
}

func (e *DefaultDialogEngine) stageAskAddress(_ context.Context, sess *models.Session, utterance string) models.TurnResult {
	sess.Address = utterance
	sess.Stage = models.StageAskSlot
	return models.TurnResult{Prompt: promptSlot, Continue: true}
}

func (e *DefaultDialogEngine) stageAskSlot(ctx context.Context, sess *models.Session, utterance string) models.TurnResult {
	day := parseDay(utterance, e.Now())
	half := parseHalfDay(utterance)
	if day == "" || half == "" {
		// Re-ask without advancing.
		return models.TurnResult{Prompt: promptSlotAsk, Continue: true}
	}

	bookingTime := day + " " + half
	booking := models.Booking{
		Name:         sess.Name,
		Email:        sess.Email,
		Phone:        sess.CallerID,
		City:         sess.City,
		Address:      sess.Address,
		Service:      sess.Service,
		Message:      sess.Message,
		Confirmation: "yes",
		BookingTime:  bookingTime,
	}
	if sess.Bedrooms > 0 {
		n := sess.Bedrooms
		booking.Bedrooms = &n
	}

	// Persistence outlives the webhook: a hangup mid-turn must not
	// abort an in-flight booking write.
	persistCtx := context.WithoutCancel(ctx)
	if _, err := e.Bookings.SaveBooking(persistCtx, booking); err != nil {
		e.Logger.Error("booking save failed", zap.String("caller", sess.CallerID), zap.Error(err))
	} else if err := e.Bookings.MarkSlotTaken(persistCtx, day, half); err != nil {
		// Recorded inconsistency: the reconciliation sweep audits
		// bookings whose slot row is missing or still open.
		e.Logger.Error("slot mark failed after booking save",
			zap.String("day", day), zap.String("slot", half), zap.Error(err))
	}

	sess.Stage = models.StageDone
	reply := bookedPrompt(sess.Service, bookingTime, sess.Email)
	e.record(sess.CallerID, "booking_done", utterance, reply)
	return models.TurnResult{Prompt: reply, Continue: false}
}

// record enqueues one audit entry; logging never blocks a turn.
func (e *DefaultDialogEngine) record(caller, intent, transcript, response string) {
	if e.Audit == nil {
		return
	}
	e.Audit.Record(models.InteractionLogEntry{
		Phone:      caller,
		Intent:     intent,
		Transcript: transcript,
		Response:   response,
		CreatedAt:  time.Now().UTC(),
	})
}
