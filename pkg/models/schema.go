package models

// JSONSchema represents a JSON Schema for a details payload.
type JSONSchema struct {
	Type        string               `json:"type"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
}

// Property represents a JSON Schema property.
type Property struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Enum        []any                `json:"enum,omitempty"`
	Default     any                  `json:"default,omitempty"`
	Format      string               `json:"format,omitempty"`
	MinLength   *int                 `json:"minLength,omitempty"`
	MaxLength   *int                 `json:"maxLength,omitempty"`
	Minimum     *int                 `json:"minimum,omitempty"`
	Pattern     string               `json:"pattern,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

func intPtr(v int) *int {
	return &v
}

func stringProperty(description string) *Property {
	return &Property{Type: "string", Description: description}
}

func enumProperty(description string, values ...any) *Property {
	return &Property{Type: "string", Description: description, Enum: values}
}

func recipientsProperty() *Property {
	return &Property{
		Type:        "array",
		Description: "Recipient addresses or user ids",
		Items:       &Property{Type: "string", MinLength: intPtr(1)},
	}
}

// TriggerDetailsSchema returns the schema of the details payload for t, or
// nil when t is not a canonical trigger type.
func TriggerDetailsSchema(t TriggerType) *JSONSchema {
	switch t {
	case TriggerTypeDate:
		return &JSONSchema{
			Type:        "object",
			Title:       "Date trigger",
			Description: "Absolute (operator, value) or relative to the event (reference, direction, amount, unit)",
			Properties: map[string]*Property{
				"operator":  enumProperty("Comparison with value", DateOperatorOn, DateOperatorBefore, DateOperatorAfter),
				"value":     stringProperty("Date to compare against"),
				"reference": enumProperty("Event boundary the offset is relative to", DateReferenceStart, DateReferenceEnd),
				"direction": enumProperty("Offset direction", DirectionBefore, DirectionAfter),
				"amount":    {Type: "integer", Description: "Offset size", Minimum: intPtr(0)},
				"unit":      stringProperty("Offset unit, e.g. days or hours"),
			},
		}
	case TriggerTypeAttendeeCount:
		return &JSONSchema{
			Type:  "object",
			Title: "Attendee count trigger",
			Properties: map[string]*Property{
				"operator":  enumProperty("Comparison with value", "equals", "eq", "less", "lt", "lessThan", "greater", "gt", "greaterThan"),
				"value":     {Type: "number", Description: "Attendance threshold", Minimum: intPtr(0)},
				"valueType": enumProperty("How value is interpreted", AttendeeValueTypeNumber, AttendeeValueTypePercentage),
			},
		}
	case TriggerTypeStatusChange:
		return &JSONSchema{
			Type:  "object",
			Title: "Status change trigger",
			Properties: map[string]*Property{
				"status": stringProperty("Event status that fires the trigger"),
			},
		}
	case TriggerTypeRegistration:
		return &JSONSchema{
			Type:        "object",
			Title:       "Registration trigger",
			Description: "Fires on every new registration",
			Properties:  map[string]*Property{},
		}
	default:
		return nil
	}
}

// ActionDetailsSchema returns the schema of the details payload for t, or nil
// when t is not a canonical action type.
func ActionDetailsSchema(t ActionType) *JSONSchema {
	switch t {
	case ActionTypeEmail:
		return &JSONSchema{
			Type:  "object",
			Title: "Send email",
			Properties: map[string]*Property{
				"subject":    stringProperty("Email subject"),
				"recipients": recipientsProperty(),
				"body":       stringProperty("Email body template"),
			},
		}
	case ActionTypeNotification:
		return &JSONSchema{
			Type:  "object",
			Title: "Send notification",
			Properties: map[string]*Property{
				"message":    stringProperty("Notification text"),
				"recipients": recipientsProperty(),
			},
		}
	case ActionTypeStatusChange:
		return &JSONSchema{
			Type:  "object",
			Title: "Change event status",
			Properties: map[string]*Property{
				"newStatus": stringProperty("Status to move the event to"),
			},
		}
	case ActionTypeFileShare:
		return &JSONSchema{
			Type:  "object",
			Title: "Share file",
			Properties: map[string]*Property{
				"fileId": stringProperty("Shared file id"),
				"status": stringProperty("Access level, e.g. public or private"),
			},
		}
	case ActionTypeImageChange:
		return &JSONSchema{
			Type:  "object",
			Title: "Change event image",
			Properties: map[string]*Property{
				"imageUrl": {Type: "string", Description: "New image location", Format: "uri"},
			},
		}
	case ActionTypeTitleChange:
		return &JSONSchema{
			Type:  "object",
			Title: "Change event title",
			Properties: map[string]*Property{
				"newTitle": {Type: "string", Description: "New event title", MaxLength: intPtr(255)},
			},
		}
	case ActionTypeDescriptionChange:
		return &JSONSchema{
			Type:  "object",
			Title: "Change event description",
			Properties: map[string]*Property{
				"newDescription": stringProperty("New event description"),
			},
		}
	default:
		return nil
	}
}
