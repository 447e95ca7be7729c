package attendance

import (
	"context"
	"errors"
	"time"

	"golang.org/x/text/language"

	"checkin-server-go/db"
	"checkin-server-go/models"
)

var fixedNow = time.Date(2024, 10, 17, 15, 4, 5, 0, time.UTC)

const fixedStamp = "2024/10/17 下午3:04:05"

func testOptions() Options {
	return Options{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
		Locale:   language.TraditionalChinese,
	}
}

func form(classYear, name, id string) models.EntryForm {
	return models.EntryForm{ClassYear: classYear, Name: name, StudentID: id}
}

// recorder confirms according to answer and remembers the prompts it saw.
type recorder struct {
	answer  bool
	prompts []string
}

func (r *recorder) Confirm(prompt string) bool {
	r.prompts = append(r.prompts, prompt)
	return r.answer
}

var errBroken = errors.New("disk on fire")

// brokenStore reads from an inner store but fails every write.
type brokenStore struct {
	db.Store
}

func (s brokenStore) Set(context.Context, string, string) error { return errBroken }
func (s brokenStore) Remove(context.Context, string) error      { return errBroken }
func (s brokenStore) Apply(context.Context, ...db.Op) error     { return errBroken }
