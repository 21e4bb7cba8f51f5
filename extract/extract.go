// ABOUTME: Contact extraction from raw comment text
// ABOUTME: Parses structured company-registry JSON payloads with a regex fallback for free text
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/harperreed/leadsync/models"
)

var (
	emailPattern = regexp.MustCompile(`(?i)\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b(?:\+?55\s?)?(?:\(?\d{2}\)?\s?)?\d{4,5}[- ]?\d{4}\b`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// structuredPayload is the conventional shape upstream producers embed in
// comment bodies: company-registry lookup results with associate records.
type structuredPayload struct {
	Associates []associate  `json:"dados_socios"`
	Emails     []emailField `json:"emails"`
}

type associate struct {
	Name   string       `json:"nome"`
	Emails []emailField `json:"emails"`
	Phones []phoneField `json:"telefones"`
}

type emailField struct {
	Email string `json:"e-mail"`
}

type phoneField struct {
	Phone string `json:"telefone"`
}

// Extract converts one comment's raw text into zero or more contact entries.
// Text that parses as a structured JSON payload takes the structured branch;
// anything else falls back to pattern matching. The two branches are mutually
// exclusive. Extract never fails: malformed input yields best-effort entries
// or none at all. Entries with neither email nor phone are never emitted.
func Extract(text string) []models.ContactEntry {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if payload, ok := parseStructured(text); ok {
		return extractStructured(payload)
	}
	return extractFreeText(text)
}

// parseStructured attempts to decode the text as a structured JSON payload.
// The explicit ok result dispatches to the regex fallback; decode failures
// are expected for free-text comments and never propagate.
func parseStructured(text string) (*structuredPayload, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var payload structuredPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

func extractStructured(payload *structuredPayload) []models.ContactEntry {
	var entries []models.ContactEntry

	for _, socio := range payload.Associates {
		for _, e := range socio.Emails {
			if e.Email == "" {
				continue
			}
			entries = append(entries, models.ContactEntry{
				Name:        socio.Name,
				Email:       strings.ToLower(e.Email),
				IsAssociate: true,
			})
		}
		for _, p := range socio.Phones {
			digits := normalizePhone(p.Phone)
			if digits == "" {
				continue
			}
			entries = append(entries, models.ContactEntry{
				Name:        socio.Name,
				Phone:       digits,
				Whatsapp:    whatsappNumber(digits),
				IsAssociate: true,
			})
		}
	}

	for _, e := range payload.Emails {
		if e.Email == "" {
			continue
		}
		entries = append(entries, models.ContactEntry{
			Email: strings.ToLower(e.Email),
		})
	}

	return entries
}

func extractFreeText(text string) []models.ContactEntry {
	var entries []models.ContactEntry

	for _, match := range emailPattern.FindAllString(text, -1) {
		entries = append(entries, models.ContactEntry{
			Email: strings.ToLower(match),
		})
	}

	for _, match := range phonePattern.FindAllString(text, -1) {
		digits := normalizePhone(match)
		if digits == "" {
			continue
		}
		entries = append(entries, models.ContactEntry{
			Phone:    digits,
			Whatsapp: whatsappNumber(digits),
		})
	}

	return entries
}

// normalizePhone strips everything but digits.
func normalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// whatsappNumber returns the digit string when the number is WhatsApp-capable:
// at least 11 digits with the Brazilian mobile marker '9' at the position
// nine digits from the end. Returns empty otherwise.
func whatsappNumber(digits string) string {
	if len(digits) >= 11 && digits[len(digits)-9] == '9' {
		return digits
	}
	return ""
}
