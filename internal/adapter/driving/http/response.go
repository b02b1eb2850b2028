package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// PartnerResponse is the public JSON representation of a partner.
type PartnerResponse struct {
	Slug         string        `json:"slug"`
	Name         string        `json:"name"`
	NameGenitive string        `json:"name_genitive"`
	HeroAudioURL string        `json:"hero_audio_url,omitempty"`
	HeroPhotoURL string        `json:"hero_photo_url,omitempty"`
	LogoURL      string        `json:"logo_url,omitempty"`
	Theme        ThemeResponse `json:"theme"`
	Status       string        `json:"status"`
	IsActive     bool          `json:"is_active"`
	HasVoiceOver bool          `json:"has_voice_over"`
}

// ThemeResponse carries the partner's brand colours.
type ThemeResponse struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

// VersionResponse is the body of /version.json, the document the update feed
// reads.
type VersionResponse struct {
	Version string `json:"version"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status           string `json:"status"`
	Time             string `json:"time"`
	Version          string `json:"version"`
	LatestVersion    string `json:"latest_version"`
	VersionCheckedAt string `json:"version_checked_at,omitempty"`
	ActiveIntros     int    `json:"active_intros"`
}

// toPartnerResponse converts a domain Partner to its JSON response representation.
// NameGenitive is always filled, falling back to the plain name.
func toPartnerResponse(p model.Partner) PartnerResponse {
	return PartnerResponse{
		Slug:         p.Slug,
		Name:         p.Name,
		NameGenitive: p.GenitiveName(),
		HeroAudioURL: p.HeroAudioURL,
		HeroPhotoURL: p.HeroPhotoURL,
		LogoURL:      p.LogoURL,
		Theme: ThemeResponse{
			Primary: p.Theme.Primary,
			Accent:  p.Theme.Accent,
		},
		Status:       string(p.Status),
		IsActive:     p.IsActive(),
		HasVoiceOver: p.HasVoiceOver(),
	}
}
