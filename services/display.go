package services

import (
	"strings"
	"time"
	"unicode"

	"github.com/LovationAdmin/horizon-api/models"
)

// SanitizeName strips everything but ASCII letters, digits, underscores and
// whitespace from a provider-supplied transaction name.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '_', unicode.IsSpace(r):
			return r
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		}
		return -1
	}, name)
}

func FormatDateTime(t time.Time) models.DateTimeFormats {
	return models.DateTimeFormats{
		DateTime: t.Format("Mon, Jan 2, 3:04 PM"),
		DateDay:  t.Format("Mon, 01/02/2006"),
		DateOnly: t.Format("Jan 2, 2006"),
		TimeOnly: t.Format("3:04 PM"),
	}
}
