package describe

import (
	"fmt"
	"strconv"

	"github.com/dukex/flowdesk/pkg/models"
)

const unknownTrigger = "Unknown trigger"

// DescribeTrigger renders a sentence saying when a trigger fires.
func DescribeTrigger(details models.TriggerDetails) string {
	switch d := details.(type) {
	case models.DateDetails:
		return describeDate(d)
	case models.AttendeeCountDetails:
		if d.Operator != "" && d.Value != nil {
			word, _ := attendeeComparison(d.Operator)

			return fmt.Sprintf("When attendance %s %s", word, attendeeValue(d))
		}

		return "Attendance trigger"
	case models.StatusChangeTriggerDetails:
		if d.Status != "" {
			return "When status changes to " + d.Status
		}

		return "Status change trigger"
	case models.RegistrationDetails:
		return "When a new user registers"
	default:
		return unknownTrigger
	}
}

// TriggerSummary is the compact form of DescribeTrigger used on badges. It
// returns an empty string when the details are incomplete.
func TriggerSummary(details models.TriggerDetails) string {
	switch d := details.(type) {
	case models.DateDetails:
		switch {
		case d.IsAbsolute():
			return dateComparison(d.Operator, "On") + " " + d.Value
		case d.IsRelative():
			return fmt.Sprintf("%d %s %s %s", *d.Amount, d.Unit, d.Direction, d.Reference)
		default:
			return ""
		}
	case models.AttendeeCountDetails:
		if d.Operator == "" || d.Value == nil {
			return ""
		}

		_, symbol := attendeeComparison(d.Operator)

		return symbol + " " + attendeeValue(d)
	case models.StatusChangeTriggerDetails:
		if d.Status == "" {
			return ""
		}

		return "-> " + d.Status
	case models.RegistrationDetails:
		return "New registration"
	default:
		return ""
	}
}

// DescribeTriggerPayload describes a loosely typed payload. Fields that do
// not decode for the type are left out of the sentence.
func DescribeTriggerPayload(tag string, payload map[string]any) string {
	return DescribeTrigger(models.LenientTriggerPayload(tag, payload))
}

// TriggerSummaryPayload is TriggerSummary for a loosely typed payload.
func TriggerSummaryPayload(tag string, payload map[string]any) string {
	return TriggerSummary(models.LenientTriggerPayload(tag, payload))
}

// TriggerLabel returns the trigger's summary override when set, otherwise its
// generated description.
func TriggerLabel(trigger *models.Trigger) string {
	if trigger == nil {
		return unknownTrigger
	}

	if trigger.Summary != "" {
		return trigger.Summary
	}

	return DescribeTrigger(triggerDetails(trigger))
}

//nolint:ireturn // tagged union
func triggerDetails(trigger *models.Trigger) models.TriggerDetails {
	if trigger.Details == nil {
		return models.EmptyTriggerDetails(trigger.CanonicalType())
	}

	return trigger.Details
}

func describeDate(d models.DateDetails) string {
	if d.IsAbsolute() {
		return dateComparison(d.Operator, "Exactly on") + " " + d.Value
	}

	if d.IsRelative() {
		reference := "event end"
		if d.Reference == models.DateReferenceStart {
			reference = "event start"
		}

		return fmt.Sprintf("%d %s %s %s", *d.Amount, d.Unit, d.Direction, reference)
	}

	return "Date trigger"
}

// dateComparison maps a date operator to its leading word; on is rendered
// as onWord and every operator other than on and before reads as After.
func dateComparison(operator, onWord string) string {
	switch operator {
	case models.DateOperatorOn:
		return onWord
	case models.DateOperatorBefore:
		return "Before"
	default:
		return "After"
	}
}

func attendeeComparison(operator string) (string, string) {
	switch operator {
	case "equals", "eq":
		return "equals", "="
	case "less", "lt", "lessThan":
		return "less than", "<"
	default:
		return "greater than", ">"
	}
}

func attendeeValue(d models.AttendeeCountDetails) string {
	value := strconv.FormatFloat(*d.Value, 'f', -1, 64)
	if d.ValueType == models.AttendeeValueTypePercentage {
		value += "%"
	}

	return value
}
