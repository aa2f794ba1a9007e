// File: services/voice/elevenlabs.go
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ttsEndpoint = "https://api.elevenlabs.io/v1/text-to-speech/%s"
	ttsTimeout  = 10 * time.Second
	audioFolder = "frontdesk/audio"
)

// ElevenLabsRenderer synthesizes speech via the ElevenLabs API and hosts
// the clip on Cloudinary so the telephony provider can play it by URL.
// Any failure along the way degrades to the empty-URL outcome.
type ElevenLabsRenderer struct {
	apiKey  string
	voiceID string
	http    *http.Client
	cld     *cloudinary.Cloudinary
	logger  *zap.Logger
}

func NewElevenLabsRenderer(apiKey, voiceID string, cld *cloudinary.Cloudinary, logger *zap.Logger) *ElevenLabsRenderer {
	return &ElevenLabsRenderer{
		apiKey:  apiKey,
		voiceID: voiceID,
		http:    &http.Client{Timeout: ttsTimeout},
		cld:     cld,
		logger:  logger,
	}
}

func (r *ElevenLabsRenderer) Render(ctx context.Context, text string) string {
	if r.apiKey == "" || r.voiceID == "" || r.cld == nil {
		return ""
	}

	audio, err := r.synthesize(ctx, text)
	if err != nil {
		r.logger.Warn("tts synthesis failed, falling back to spoken text", zap.Error(err))
		return ""
	}

	params := uploader.UploadParams{
		PublicID:     uuid.New().String(),
		Folder:       audioFolder,
		ResourceType: "video", // cloudinary stores audio under the video type
	}
	resp, err := r.cld.Upload.Upload(ctx, bytes.NewReader(audio), params)
	if err != nil {
		r.logger.Warn("audio upload failed, falling back to spoken text", zap.Error(err))
		return ""
	}
	return resp.SecureURL
}

func (r *ElevenLabsRenderer) synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf(ttsEndpoint, r.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", r.apiKey)

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
