package view

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/RagibHasin/mudawanah/internal/config"
)

// Formatter renders numbers, dates and dictionary entries for one locale.
// Templates receive one per request and call its methods directly.
type Formatter struct {
	printer *message.Printer
	layout  string
	dict    map[string]string
}

// NewFormatter builds the formatter for a locale's presentation config.
func NewFormatter(lc config.LocaleConfig) Formatter {
	tag, err := language.Parse(lc.Locale)
	if err != nil {
		tag = language.English
	}
	return Formatter{
		printer: message.NewPrinter(tag),
		layout:  lc.DateLayout,
		dict:    lc.Dictionary,
	}
}

// Number formats a number with the locale's digit grouping.
func (f Formatter) Number(n any) string {
	return f.printer.Sprint(n)
}

// Date formats a timestamp with the locale's date layout.
func (f Formatter) Date(t time.Time) string {
	return t.Format(f.layout)
}

// Say looks up a dictionary entry and expands it with Format. A missing
// entry yields the key itself, so untranslated strings stay visible.
func (f Formatter) Say(key string, params ...any) string {
	entry, ok := f.dict[key]
	if !ok {
		return key
	}
	return f.Format(entry, params...)
}

// Format expands a dictionary-style format string. Placeholders start with
// '#': "#n" formats the next parameter as a localized number, "#d" as a
// localized date, "#s" inserts it verbatim, and "##" is a literal '#'.
func (f Formatter) Format(format string, params ...any) string {
	pieces := strings.Split(format, "#")

	var b strings.Builder
	b.WriteString(pieces[0])

	next := 0
	take := func() any {
		if next >= len(params) {
			return ""
		}
		p := params[next]
		next++
		return p
	}

	for i := 1; i < len(pieces); i++ {
		piece := pieces[i]
		if piece == "" {
			// "##": the next split piece carries the literal text
			if i+1 < len(pieces) {
				i++
				b.WriteString("#")
				b.WriteString(pieces[i])
			} else {
				b.WriteString("#")
			}
			continue
		}
		switch piece[0] {
		case 'n':
			b.WriteString(f.Number(take()))
			b.WriteString(piece[1:])
		case 's':
			b.WriteString(toString(take()))
			b.WriteString(piece[1:])
		case 'd':
			if t, ok := take().(time.Time); ok {
				b.WriteString(f.Date(t))
			}
			b.WriteString(piece[1:])
		default:
			b.WriteString(piece)
		}
	}
	return b.String()
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
