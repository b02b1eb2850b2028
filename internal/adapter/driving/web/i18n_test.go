package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

func TestResolveTag(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		wantTag     language.Tag
		wantPersist bool
	}{
		{name: "default is polish", target: "/", wantTag: language.Polish},
		{name: "query wins and persists", target: "/?lang=en", cookie: "pl", accept: "pl", wantTag: language.English, wantPersist: true},
		{name: "regional query variant", target: "/?lang=en-GB", wantTag: language.English, wantPersist: true},
		{name: "unsupported query falls through to cookie", target: "/?lang=de", cookie: "en", wantTag: language.English},
		{name: "cookie beats accept-language", target: "/", cookie: "pl", accept: "en-US,en;q=0.9", wantTag: language.Polish},
		{name: "accept-language", target: "/", accept: "en-US,en;q=0.9", wantTag: language.English},
		{name: "unsupported accept-language", target: "/", accept: "de-DE", wantTag: language.Polish},
		{name: "garbage query", target: "/?lang=not_a_tag!", wantTag: language.Polish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: langCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}

			tag, persist := resolveTag(req)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantPersist, persist)
		})
	}
}

func TestLocalizer_Printer(t *testing.T) {
	loc, err := NewLocalizer()
	require.NoError(t, err)

	pl := loc.Printer(language.Polish)
	assert.Equal(t, "Wersja 1.2.3", pl.Sprintf("footer.version", "1.2.3"))
	assert.Equal(t, "Slajd 2 z 4", pl.Sprintf("carousel.goto", 2, 4))

	en := loc.Printer(language.English)
	assert.Equal(t, "Personalized storybooks for guests of Kina Nowego", en.Sprintf("landing.hero.title", "Kina Nowego"))
}

func TestLocales_SameKeys(t *testing.T) {
	keys := func(path string) map[string]bool {
		data, err := localeFS.ReadFile(path)
		require.NoError(t, err)
		var messages map[string]string
		require.NoError(t, yaml.Unmarshal(data, &messages))
		out := make(map[string]bool, len(messages))
		for k := range messages {
			out[k] = true
		}
		return out
	}

	assert.Equal(t, keys("locales/pl.yaml"), keys("locales/en.yaml"))
}
