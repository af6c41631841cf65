package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	en := WithLocale(context.Background(), "en")
	fr := WithLocale(context.Background(), "fr")

	assert.Equal(t, "Please check in first.", T(en, "attendance.err.not_checked_in"))
	assert.Equal(t, "Veuillez d'abord pointer votre arrivée.", T(fr, "attendance.err.not_checked_in"))

	msg := T(en, "report.title", map[string]any{"Period": "2026-03"})
	assert.Equal(t, "Monthly attendance 2026-03", msg)

	assert.Equal(t, "no.such.key", T(en, "no.such.key"))
}

func TestMatchAcceptLanguage(t *testing.T) {
	assert.Equal(t, "fr", MatchAcceptLanguage("fr-FR,fr;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", MatchAcceptLanguage("en-US"))
	assert.Equal(t, "", MatchAcceptLanguage(""))
	assert.Equal(t, "", MatchAcceptLanguage("ja-JP"))
}

func TestLocaleFromContext(t *testing.T) {
	assert.Equal(t, defaultLocale, LocaleFromContext(context.Background()))
	assert.Equal(t, "fr", LocaleFromContext(WithLocale(context.Background(), "fr")))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	load()
	en := WithLocale(context.Background(), "en")
	fr := WithLocale(context.Background(), "fr")
	for _, id := range []string{
		"attendance.err.already_checked_in",
		"attendance.err.checkout_before_checkin",
		"attendance.err.internal",
		"attendance.notify.late",
		"report.col.attendance_rate",
		"report.generated_at",
		"auth.err.invalid",
	} {
		assert.NotEqual(t, id, T(en, id), id)
		assert.NotEqual(t, id, T(fr, id), id)
	}
}
