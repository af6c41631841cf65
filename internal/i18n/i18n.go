package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"log"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle        *i18n.Bundle
	matcher       language.Matcher
	loadOnce      sync.Once
	defaultLocale = "en"
)

type ctxKey struct{}

// Init loads all locale files and sets the default locale.
func Init(defLocale string) {
	if defLocale != "" {
		defaultLocale = defLocale
	}
	load()
	log.Printf("i18n: loaded %d locales, default=%s", len(bundle.LanguageTags()), defaultLocale)
}

func load() {
	loadOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			log.Fatalf("i18n: read locales dir: %v", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				log.Fatalf("i18n: read %s: %v", e.Name(), err)
			}
			bundle.MustParseMessageFileBytes(data, e.Name())
		}
		matcher = language.NewMatcher(bundle.LanguageTags())
	})
}

// WithLocale returns a new context carrying the given locale string (e.g. "fr", "en").
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext extracts the locale from the context.
// Returns the configured default locale if not set.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return defaultLocale
}

// MatchAcceptLanguage picks the supported locale that best matches an
// Accept-Language header, or "" when nothing matches.
func MatchAcceptLanguage(header string) string {
	load()
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	base, _ := bundle.LanguageTags()[idx].Base()
	return base.String()
}

// T translates a message ID using the locale from the context.
// Optional templateData provides values for template placeholders.
func T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	load()
	lang := LocaleFromContext(ctx)
	l := i18n.NewLocalizer(bundle, lang, defaultLocale)

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
