// Package describe renders flow triggers and actions as titles, icons and
// human-readable sentences for admin dashboards.
//
// Every function in this package is total: unknown types and missing fields
// produce a deterministic fallback and never an error.
package describe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dukex/flowdesk/pkg/models"
)

// Icon names a lucide icon rendered by the dashboard.
type Icon string

const (
	IconCalendar Icon = "calendar"
	IconUsers    Icon = "users"
	IconRefresh  Icon = "refresh-cw"
	IconUserPlus Icon = "user-plus"
	IconMail     Icon = "mail"
	IconBell     Icon = "bell"
	IconShare    Icon = "share-2"
	IconImage    Icon = "image"
	IconType     Icon = "type"
	IconFileText Icon = "file-text"
	IconGeneric  Icon = "zap"
)

type label struct {
	title string
	icon  Icon
}

var triggerLabels = map[models.TriggerType]label{
	models.TriggerTypeDate:          {"Date", IconCalendar},
	models.TriggerTypeAttendeeCount: {"Attendee Count", IconUsers},
	models.TriggerTypeStatusChange:  {"Status Change", IconRefresh},
	models.TriggerTypeRegistration:  {"Registration", IconUserPlus},
}

var actionLabels = map[models.ActionType]label{
	models.ActionTypeEmail:             {"Send Email", IconMail},
	models.ActionTypeNotification:      {"Send Notification", IconBell},
	models.ActionTypeStatusChange:      {"Status Change", IconRefresh},
	models.ActionTypeFileShare:         {"Share File", IconShare},
	models.ActionTypeImageChange:       {"Change Image", IconImage},
	models.ActionTypeTitleChange:       {"Change Title", IconType},
	models.ActionTypeDescriptionChange: {"Change Description", IconFileText},
}

// TriggerTitle returns the display title of a trigger type.
func TriggerTitle(t models.TriggerType) string {
	if l, ok := triggerLabels[t]; ok {
		return l.title
	}

	return Humanize(string(t))
}

// TriggerIcon returns the icon of a trigger type.
func TriggerIcon(t models.TriggerType) Icon {
	if l, ok := triggerLabels[t]; ok {
		return l.icon
	}

	return IconGeneric
}

// ActionTitle returns the display title of an action type.
func ActionTitle(t models.ActionType) string {
	if l, ok := actionLabels[t]; ok {
		return l.title
	}

	return Humanize(string(t))
}

// ActionIcon returns the icon of an action type.
func ActionIcon(t models.ActionType) Icon {
	if l, ok := actionLabels[t]; ok {
		return l.icon
	}

	return IconGeneric
}

// TitleFor returns the display title of a trigger or action tag. Legacy
// aliases resolve to their canonical entry; unknown tags are humanized.
func TitleFor(tag string) string {
	if t, ok := models.ParseTriggerType(tag); ok {
		return TriggerTitle(t)
	}

	if a, ok := models.ParseActionType(tag); ok {
		return ActionTitle(a)
	}

	return Humanize(tag)
}

// IconFor returns the icon of a trigger or action tag, IconGeneric when unknown.
func IconFor(tag string) Icon {
	if t, ok := models.ParseTriggerType(tag); ok {
		return TriggerIcon(t)
	}

	if a, ok := models.ParseActionType(tag); ok {
		return ActionIcon(a)
	}

	return IconGeneric
}

// Humanize splits a camelCase tag into words and capitalizes the first
// letter: "fooBarBaz" becomes "Foo Bar Baz".
func Humanize(tag string) string {
	var b strings.Builder

	b.Grow(len(tag) + 4)

	for i, r := range tag {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}

		b.WriteRune(r)
	}

	out := b.String()
	if out == "" {
		return out
	}

	first, size := utf8.DecodeRuneInString(out)

	return string(unicode.ToUpper(first)) + out[size:]
}
