package cms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// The CMS may present an element's fields either nested under "attributes" or flat on the
// element itself. Elements are decoded in two explicit stages (nested schema, then flat schema)
// and the results merged with the nested values taking precedence field by field. Decoding only
// fails when neither schema parses.

// mergeable is implemented by the per-type field sets.
type mergeable[F any] interface {
	over(flat F) F
}

// element is one decoded CMS entry with its position in the collection.
type element[F any] struct {
	ID     int
	Index  int
	Fields F
}

var (
	errNotArray    = errors.New("data is not an array")
	errNullElement = errors.New("element is null")
)

// splitCollection parses a collection payload into its raw elements.
func splitCollection(resource Resource, data json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &DecodeError{Resource: resource, Err: errNotArray}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &DecodeError{Resource: resource, Err: err}
	}
	return items, nil
}

// decodeElements runs the two-stage decode over every raw element.
func decodeElements[F mergeable[F]](resource Resource, items []json.RawMessage) ([]element[F], error) {
	out := make([]element[F], 0, len(items))
	for i, raw := range items {
		el, err := decodeElement[F](raw)
		if err != nil {
			return nil, &DecodeError{Resource: resource, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		el.Index = i
		if el.ID == 0 {
			el.ID = i + 1
		}
		out = append(out, el)
	}
	return out, nil
}

type elementHead struct {
	ID         json.RawMessage `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

func decodeElement[F mergeable[F]](raw json.RawMessage) (element[F], error) {
	if t := bytes.TrimSpace(raw); len(t) == 0 || string(t) == "null" {
		return element[F]{}, errNullElement
	}
	var p elementHead
	if err := json.Unmarshal(raw, &p); err != nil {
		return element[F]{}, err
	}
	el := element[F]{ID: parseID(p.ID)}

	var nested, flat F
	hasNested := len(p.Attributes) > 0 && string(p.Attributes) != "null"
	var nestedErr error
	if hasNested {
		nestedErr = json.Unmarshal(p.Attributes, &nested)
	}
	flatErr := json.Unmarshal(raw, &flat)

	switch {
	case hasNested && nestedErr == nil && flatErr == nil:
		el.Fields = nested.over(flat)
	case hasNested && nestedErr == nil:
		el.Fields = nested
	case flatErr == nil:
		el.Fields = flat
	case hasNested:
		return element[F]{}, errors.Join(nestedErr, flatErr)
	default:
		return element[F]{}, flatErr
	}
	return el, nil
}

// parseID accepts numeric and numeric-string identifiers; anything else is treated as absent.
func parseID(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func prefer(nested, flat string) string {
	if strings.TrimSpace(nested) != "" {
		return nested
	}
	return flat
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

type heroFields struct {
	BackgroundVideoURL string `json:"backgroundVideoUrl"`
	BackgroundImageURL string `json:"backgroundImageUrl"`
	ProfileImageURL    string `json:"profileImageUrl"`
}

func (n heroFields) over(f heroFields) heroFields {
	return heroFields{
		BackgroundVideoURL: prefer(n.BackgroundVideoURL, f.BackgroundVideoURL),
		BackgroundImageURL: prefer(n.BackgroundImageURL, f.BackgroundImageURL),
		ProfileImageURL:    prefer(n.ProfileImageURL, f.ProfileImageURL),
	}
}

type socialFields struct {
	WhatsApp string `json:"whatsapp"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type teamFields struct {
	Name     string       `json:"name"`
	Position string       `json:"position"`
	ImageURL string       `json:"imageUrl"`
	Socials  socialFields `json:"socials"`
}

func (n teamFields) over(f teamFields) teamFields {
	return teamFields{
		Name:     prefer(n.Name, f.Name),
		Position: prefer(n.Position, f.Position),
		ImageURL: prefer(n.ImageURL, f.ImageURL),
		Socials: socialFields{
			WhatsApp: prefer(n.Socials.WhatsApp, f.Socials.WhatsApp),
			Phone:    prefer(n.Socials.Phone, f.Socials.Phone),
			Email:    prefer(n.Socials.Email, f.Socials.Email),
		},
	}
}

type serviceFields struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func (n serviceFields) over(f serviceFields) serviceFields {
	return serviceFields{
		Title:       prefer(n.Title, f.Title),
		Slug:        prefer(n.Slug, f.Slug),
		Description: prefer(n.Description, f.Description),
		Content:     prefer(n.Content, f.Content),
	}
}

type testimonialFields struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Position string `json:"position"`
	Company  string `json:"company"`
	ImageURL string `json:"imageUrl"`
}

func (n testimonialFields) over(f testimonialFields) testimonialFields {
	return testimonialFields{
		Text:     prefer(n.Text, f.Text),
		Author:   prefer(n.Author, f.Author),
		Position: prefer(n.Position, f.Position),
		Company:  prefer(n.Company, f.Company),
		ImageURL: prefer(n.ImageURL, f.ImageURL),
	}
}
