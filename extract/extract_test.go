// ABOUTME: Tests for contact extraction from comment text
// ABOUTME: Covers the structured JSON branch, regex fallback, and the WhatsApp rule
package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadsync/models"
)

func TestExtractStructuredAssociates(t *testing.T) {
	text := `{"dados_socios":[{"nome":"Ana","emails":[{"e-mail":"A@X.com"}],"telefones":[{"telefone":"(11) 98888-7777"}]}]}`

	entries := Extract(text)
	require.Len(t, entries, 2)

	email := entries[0]
	assert.Equal(t, "Ana", email.Name)
	assert.Equal(t, "a@x.com", email.Email)
	assert.Empty(t, email.Phone)
	assert.True(t, email.IsAssociate)

	phone := entries[1]
	assert.Equal(t, "Ana", phone.Name)
	assert.Equal(t, "11988887777", phone.Phone)
	assert.Equal(t, "11988887777", phone.Whatsapp, "11-digit number with mobile marker should be flagged")
	assert.True(t, phone.IsAssociate)
}

func TestExtractStructuredTopLevelEmails(t *testing.T) {
	text := `{"emails":[{"e-mail":"Contato@Empresa.com.br"},{"e-mail":"outro@empresa.com.br"}]}`

	entries := Extract(text)
	require.Len(t, entries, 2)

	assert.Equal(t, "contato@empresa.com.br", entries[0].Email)
	assert.Empty(t, entries[0].Name)
	assert.False(t, entries[0].IsAssociate)
	assert.Equal(t, "outro@empresa.com.br", entries[1].Email)
}

func TestExtractStructuredSkipsEmptyFields(t *testing.T) {
	text := `{"dados_socios":[{"nome":"Bia","emails":[{"e-mail":""}],"telefones":[{"telefone":"abc"}]}]}`

	entries := Extract(text)
	assert.Empty(t, entries, "entries without email or phone digits are never emitted")
}

func TestExtractFreeText(t *testing.T) {
	entries := Extract("Contato: joao@teste.com ou (21) 3333-4444")
	require.Len(t, entries, 2)

	assert.Equal(t, "joao@teste.com", entries[0].Email)
	assert.False(t, entries[0].IsAssociate)

	assert.Equal(t, "2133334444", entries[1].Phone)
	assert.Empty(t, entries[1].Whatsapp, "10-digit landline has no mobile marker")
}

func TestExtractFreeTextWhatsapp(t *testing.T) {
	entries := Extract("WhatsApp: +55 (11) 98888-7777")
	require.Len(t, entries, 1)
	assert.Equal(t, "5511988887777", entries[0].Phone)
	assert.Equal(t, "5511988887777", entries[0].Whatsapp)
}

func TestExtractBranchesAreExclusive(t *testing.T) {
	// A valid structured payload whose text also contains regex-matchable
	// content must only take the structured branch.
	text := `{"emails":[{"e-mail":"json@branch.com"}],"note":"regex@branch.com"}`

	entries := Extract(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "json@branch.com", entries[0].Email)
}

func TestExtractNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"{",
		"{invalid json",
		`{"dados_socios": "not an array"}`,
		"123",
		`"just a string"`,
		"no contact info here",
		strings.Repeat("a", 100_000),
		"null",
		`{"dados_socios": null, "emails": null}`,
	}

	for _, input := range inputs {
		entries := Extract(input)
		for _, e := range entries {
			if e.Email == "" && e.Phone == "" {
				t.Errorf("Extract(%.30q) emitted an entry with no contact info", input)
			}
		}
	}
}

func TestWhatsappNumber(t *testing.T) {
	tests := []struct {
		digits   string
		expected string
	}{
		{"11988887777", "11988887777"},   // 11 digits, index 2 == '9'
		{"5511988887777", "5511988887777"}, // with country code, index 4 == '9'
		{"1188887777", ""},               // 10 digits, too short
		{"11888877779", ""},              // marker position holds '8'
		{"", ""},
	}

	for _, tt := range tests {
		if got := whatsappNumber(tt.digits); got != tt.expected {
			t.Errorf("whatsappNumber(%q) = %q, want %q", tt.digits, got, tt.expected)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(11) 98888-7777", "11988887777"},
		{"+55 21 3333-4444", "552133334444"},
		{"no digits", ""},
	}

	for _, tt := range tests {
		if got := normalizePhone(tt.input); got != tt.expected {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExtractMultipleAssociates(t *testing.T) {
	text := `{"dados_socios":[
		{"nome":"Ana","emails":[{"e-mail":"ana@x.com"}],"telefones":[]},
		{"nome":"Bruno","emails":[],"telefones":[{"telefone":"(21) 99999-0000"},{"telefone":"(21) 3333-4444"}]}
	]}`

	entries := Extract(text)
	require.Len(t, entries, 3)

	assert.Equal(t, models.ContactEntry{Name: "Ana", Email: "ana@x.com", IsAssociate: true}, entries[0])
	assert.Equal(t, "Bruno", entries[1].Name)
	assert.Equal(t, "21999990000", entries[1].Whatsapp)
	assert.Empty(t, entries[2].Whatsapp)
}
