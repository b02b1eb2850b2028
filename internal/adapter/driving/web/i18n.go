package web

import (
	"embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const (
	// langParam is the query parameter used to select a language.
	langParam = "lang"
	// langCookieName stores the visitor's language preference.
	langCookieName = "sp_lang"
)

// supportedTags lists the UI languages; the first is the default.
var supportedTags = []language.Tag{language.Polish, language.English}

var langMatcher = language.NewMatcher(supportedTags)

// Localizer resolves the request language and provides message printers
// backed by the embedded locale catalogs.
type Localizer struct {
	catalog *catalog.Builder
}

// NewLocalizer loads the embedded locale files.
func NewLocalizer() (*Localizer, error) {
	b := catalog.NewBuilder(catalog.Fallback(supportedTags[0]))

	for _, tag := range supportedTags {
		base, _ := tag.Base()
		path := "locales/" + base.String() + ".yaml"

		data, err := localeFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for key, msg := range messages {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("set %s %s: %w", tag, key, err)
			}
		}
	}

	return &Localizer{catalog: b}, nil
}

// Printer returns a message printer for tag.
func (l *Localizer) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}

// resolveTag determines the best supported language for the request: the
// lang query parameter, then the language cookie, then Accept-Language. The
// bool reports whether the query parameter should be persisted as a cookie.
func resolveTag(r *http.Request) (language.Tag, bool) {
	if v := strings.TrimSpace(r.URL.Query().Get(langParam)); v != "" {
		if tag, ok := matchTag(v); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(langCookieName); err == nil {
		if tag, ok := matchTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := langMatcher.Match(tags...)
			if conf != language.No {
				return supportedTags[idx], false
			}
		}
	}

	return supportedTags[0], false
}

// matchTag maps a raw tag to a supported language, rejecting anything that is
// not at least a base-language match.
func matchTag(raw string) (language.Tag, bool) {
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := langMatcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supportedTags[idx], true
}

func setLanguageCookie(w http.ResponseWriter, tag language.Tag, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     langCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
