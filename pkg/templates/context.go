package templates

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AttachmentNamesKey is the derived token listing attachment filenames.
const AttachmentNamesKey = "attachmentNames"

// Attachment is a file submitted with the form. Content is base64 in JSON.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
	Content     []byte `json:"content"`
}

// ContactData is the payload of a contact-form submission.
// Unknown JSON fields are kept in Extra and rendered like the known ones.
type ContactData struct {
	Extra       map[string]string
	Name        string
	Email       string
	Phone       string
	Message     string
	Attachments []Attachment
}

// RenderContext converts the submission into substitution values,
// including attachmentNames.
func (d ContactData) RenderContext() RenderContext {
	rc := make(RenderContext, len(d.Extra)+5)
	for k, v := range d.Extra {
		rc[k] = v
	}
	rc["name"] = d.Name
	rc["email"] = d.Email
	rc["phone"] = d.Phone
	rc["message"] = d.Message

	names := make([]string, 0, len(d.Attachments))
	for _, a := range d.Attachments {
		names = append(names, a.Filename)
	}
	rc[AttachmentNamesKey] = strings.Join(names, ", ")

	return rc
}

// UnmarshalJSON accepts any JSON object, coercing field values to strings.
func (d *ContactData) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = ContactData{}
	for key, msg := range raw {
		if key == "attachments" {
			if err := json.Unmarshal(msg, &d.Attachments); err != nil {
				return fmt.Errorf("attachments: %w", err)
			}
			continue
		}

		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		value := Coerce(v)

		switch key {
		case "name":
			d.Name = value
		case "email":
			d.Email = value
		case "phone":
			d.Phone = value
		case "message":
			d.Message = value
		case AttachmentNamesKey:
			// always derived
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]string)
			}
			d.Extra[key] = value
		}
	}
	return nil
}

// MarshalJSON writes the submission back as a flat object.
func (d ContactData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+5)
	for k, v := range d.Extra {
		out[k] = v
	}
	out["name"] = d.Name
	out["email"] = d.Email
	out["phone"] = d.Phone
	out["message"] = d.Message
	if len(d.Attachments) > 0 {
		out["attachments"] = d.Attachments
	}
	return json.Marshal(out)
}

// Coerce converts a decoded JSON value into a substitution string.
// Falsy values (nil, false, 0, "") become the empty string.
func Coerce(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		if val == 0 {
			return ""
		}
		return strconv.Itoa(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = Coerce(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}
