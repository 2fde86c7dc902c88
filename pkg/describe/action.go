package describe

import "github.com/dukex/flowdesk/pkg/models"

const (
	unknownAction = "Unknown action"

	// SummaryTextLimit is the number of runes of free text kept by the
	// summary variants before Ellipsis is appended.
	SummaryTextLimit = 30
	Ellipsis         = "..."
)

// DescribeAction renders a sentence saying what an action does.
func DescribeAction(details models.ActionDetails) string {
	switch d := details.(type) {
	case models.EmailDetails:
		return "Send email with subject " + quote(orDefault(d.Subject, "No subject"))
	case models.NotificationDetails:
		return "Send notification: " + quote(orDefault(d.Message, "No message"))
	case models.StatusChangeActionDetails:
		return "Change event status to " + orDefault(d.NewStatus, "unknown")
	case models.FileShareDetails:
		file := "Share file"
		if d.FileID != "" {
			file += " (ID: " + d.FileID + ")"
		}

		return file + " with " + orDefault(d.Status, "unknown") + " access"
	case models.ImageChangeDetails:
		return "Update event image"
	case models.TitleChangeDetails:
		return "Change event title to " + quote(orDefault(d.NewTitle, "unknown"))
	case models.DescriptionChangeDetails:
		return "Update event description"
	default:
		return unknownAction
	}
}

// ActionSummary is the compact form of DescribeAction used on dashboard
// badges. It returns an empty string when a required field is missing and
// truncates free text to SummaryTextLimit runes.
func ActionSummary(details models.ActionDetails) string {
	switch d := details.(type) {
	case models.EmailDetails:
		return Truncate(d.Subject, SummaryTextLimit)
	case models.NotificationDetails:
		return Truncate(d.Message, SummaryTextLimit)
	case models.StatusChangeActionDetails:
		return d.NewStatus
	case models.FileShareDetails:
		if d.Status == "" {
			return ""
		}

		return d.Status + " access"
	case models.ImageChangeDetails:
		if d.ImageURL == "" {
			return ""
		}

		return "New image"
	case models.TitleChangeDetails:
		return Truncate(d.NewTitle, SummaryTextLimit)
	case models.DescriptionChangeDetails:
		if d.NewDescription == "" {
			return ""
		}

		return "New description"
	default:
		return ""
	}
}

// DescribeActionPayload describes a loosely typed payload. Fields that do
// not decode for the type fall back to their defaults.
func DescribeActionPayload(tag string, payload map[string]any) string {
	return DescribeAction(models.LenientActionPayload(tag, payload))
}

// ActionSummaryPayload is ActionSummary for a loosely typed payload.
func ActionSummaryPayload(tag string, payload map[string]any) string {
	return ActionSummary(models.LenientActionPayload(tag, payload))
}

// ActionLabel returns the action's summary override when set, otherwise its
// generated description.
func ActionLabel(action *models.Action) string {
	if action == nil {
		return unknownAction
	}

	if action.Summary != "" {
		return action.Summary
	}

	return DescribeAction(actionDetails(action))
}

// Truncate shortens s to limit runes followed by Ellipsis. Strings within
// the limit are returned unchanged.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + Ellipsis
}

//nolint:ireturn // tagged union
func actionDetails(action *models.Action) models.ActionDetails {
	if action.Details == nil {
		return models.EmptyActionDetails(action.CanonicalType())
	}

	return action.Details
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func quote(s string) string {
	return `"` + s + `"`
}
