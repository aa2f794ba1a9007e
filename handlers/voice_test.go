// File: handlers/voice_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"frontdesk/models"
	"frontdesk/services/session"
	"frontdesk/services/voice"
)

// echoEngine replies with the utterance and hangs up on "goodbye".
type echoEngine struct{}

func (echoEngine) HandleTurn(_ context.Context, sess *models.Session, utterance string) models.TurnResult {
	sess.Message = utterance
	return models.TurnResult{
		Prompt:   "you said " + utterance,
		Continue: utterance != "goodbye",
	}
}

type fakePlacer struct {
	to        string
	answerURL string
}

func (f *fakePlacer) PlaceCall(_ context.Context, to, answerURL string) (string, error) {
	f.to = to
	f.answerURL = answerURL
	return "CA123", nil
}

// urlRenderer simulates a configured audio backend.
type urlRenderer struct{ url string }

func (r urlRenderer) Render(context.Context, string) string { return r.url }

func newTestRouter(t *testing.T, renderer voice.Renderer, placer *fakePlacer) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(time.Minute)
	h := NewVoiceHandler(store, echoEngine{}, renderer, placer, nil, "https://frontdesk.test", zap.NewNop())

	r := gin.New()
	r.POST("/incoming_call", h.IncomingCall)
	r.GET("/voice", h.OutboundVoice)
	r.POST("/gather", h.Gather)
	r.POST("/trigger_call", h.TriggerCall)
	return r, store
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGatherSpeaksPromptAndKeepsGathering(t *testing.T) {
	r, _ := newTestRouter(t, voice.NoopRenderer{}, &fakePlacer{})

	w := postForm(r, "/gather?phone=%2B15550001", url.Values{"SpeechResult": {"hello"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<Say>you said hello</Say>")
	assert.Contains(t, body, `action="https://frontdesk.test/gather?phone=%2B15550001"`)
	assert.NotContains(t, body, "<Hangup/>")
}

func TestGatherHangsUpWhenConversationEnds(t *testing.T) {
	r, _ := newTestRouter(t, voice.NoopRenderer{}, &fakePlacer{})

	w := postForm(r, "/gather?phone=%2B15550001", url.Values{"SpeechResult": {"goodbye"}})

	body := w.Body.String()
	assert.Contains(t, body, "<Hangup/>")
	assert.NotContains(t, body, "<Gather")
}

func TestGatherPlaysRenderedAudio(t *testing.T) {
	r, _ := newTestRouter(t, urlRenderer{url: "https://cdn.test/a.mp3"}, &fakePlacer{})

	w := postForm(r, "/gather?phone=%2B15550001", url.Values{"SpeechResult": {"hello"}})

	body := w.Body.String()
	assert.Contains(t, body, "<Play>https://cdn.test/a.mp3</Play>")
	assert.NotContains(t, body, "<Say>")
}

func TestGatherPersistsSessionMutation(t *testing.T) {
	r, store := newTestRouter(t, voice.NoopRenderer{}, &fakePlacer{})

	postForm(r, "/gather?phone=%2B15550001", url.Values{"SpeechResult": {"remember me"}})

	sess, err := store.GetOrCreate(context.Background(), "+15550001")
	require.NoError(t, err)
	assert.Equal(t, "remember me", sess.Message)
}

func TestSayTextIsEscaped(t *testing.T) {
	r, _ := newTestRouter(t, voice.NoopRenderer{}, &fakePlacer{})

	w := postForm(r, "/gather?phone=%2B15550001", url.Values{"SpeechResult": {"cats & <dogs>"}})

	body := w.Body.String()
	assert.Contains(t, body, "<Say>you said cats and dogs</Say>")
}

func TestIncomingCallGreets(t *testing.T) {
	r, _ := newTestRouter(t, voice.NoopRenderer{}, &fakePlacer{})

	w := postForm(r, "/incoming_call", url.Values{"From": {"+15550009"}})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<Say>")
	assert.Contains(t, body, "How can I help you today?")
	assert.Contains(t, body, url.QueryEscape("+15550009"))
}

func TestTriggerCallSeedsSessionAndDials(t *testing.T) {
	placer := &fakePlacer{}
	r, store := newTestRouter(t, voice.NoopRenderer{}, placer)

	payload := `{"name":"Jane","phone":"+15550007","service":"Deep Cleaning","message":"requested online","email":"jane@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/trigger_call", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CA123")
	assert.Equal(t, "+15550007", placer.to)
	assert.Contains(t, placer.answerURL, "https://frontdesk.test/voice?phone=")

	sess, err := store.GetOrCreate(context.Background(), "+15550007")
	require.NoError(t, err)
	assert.Equal(t, "Jane", sess.Name)
	assert.Equal(t, "Deep Cleaning", sess.Service)
	assert.Equal(t, models.StageGreeting, sess.Stage)
}

func TestTriggerCallRejectsMissingFields(t *testing.T) {
	r, _ := newTestRouter(t, voice.NoopRenderer{}, &fakePlacer{})

	req := httptest.NewRequest(http.MethodPost, "/trigger_call", strings.NewReader(`{"name":"Jane"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
