package attendance

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"checkin-server-go/i18n"
)

// Options configures a Checklist or Board.
type Options struct {
	Now      func() time.Time // defaults to time.Now
	Location *time.Location   // defaults to time.Local
	Locale   language.Tag     // defaults to zh-TW
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Locale == language.Und {
		o.Locale = i18n.DefaultLocale
	}
	return o
}

func (o Options) printer() *message.Printer {
	return i18n.Printer(o.Locale)
}

func (o Options) timestamp() string {
	return FormatTimestamp(o.Now().In(o.Location), o.Locale)
}

// FormatTimestamp renders t the way the locale writes a date and time,
// e.g. "2024/10/17 下午3:04:05" for zh-TW and "10/17/2024, 3:04:05 PM" for en-US.
func FormatTimestamp(t time.Time, tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "zh":
		period := "上午"
		if t.Hour() >= 12 {
			period = "下午"
		}
		return t.Format("2006/1/2 ") + period + t.Format("3:04:05")
	case "en":
		return t.Format("1/2/2006, 3:04:05 PM")
	default:
		return t.Format("2006-01-02 15:04:05")
	}
}
