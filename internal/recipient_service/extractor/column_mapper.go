package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical contact field a header column can map to.
type Field string

const (
	FieldPhone     Field = "phone"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldEmail     Field = "email"
)

// columnAliases maps normalized header names (lower-case, accents folded) to fields.
var columnAliases = map[string]Field{
	// Phone
	"phone":               FieldPhone,
	"phone number":        FieldPhone,
	"phonenumber":         FieldPhone,
	"phone no":            FieldPhone,
	"tel":                 FieldPhone,
	"telephone":           FieldPhone,
	"numero de telephone": FieldPhone,
	"mobile":              FieldPhone,
	"mobile number":       FieldPhone,
	"mobile phone":        FieldPhone,
	"cell":                FieldPhone,
	"cellphone":           FieldPhone,
	"cell phone":          FieldPhone,
	"numero":              FieldPhone,
	"num":                 FieldPhone,
	"number":              FieldPhone,
	"contact":             FieldPhone,
	"msisdn":              FieldPhone,
	"gsm":                 FieldPhone,
	"portable":            FieldPhone,
	"whatsapp":            FieldPhone,

	// First name
	"first name": FieldFirstName,
	"firstname":  FieldFirstName,
	"first":      FieldFirstName,
	"given name": FieldFirstName,
	"prenom":     FieldFirstName,
	"prenoms":    FieldFirstName,

	// Last name
	"last name":      FieldLastName,
	"lastname":       FieldLastName,
	"last":           FieldLastName,
	"surname":        FieldLastName,
	"family name":    FieldLastName,
	"nom":            FieldLastName,
	"nom de famille": FieldLastName,

	// Email
	"email":         FieldEmail,
	"e-mail":        FieldEmail,
	"mail":          FieldEmail,
	"email address": FieldEmail,
	"courriel":      FieldEmail,
	"adresse email": FieldEmail,
}

// phoneStems catch permissive variants like "Tel. portable" or "Mobile (work)".
var phoneStems = []string{"phone", "tel", "mobile", "numero", "msisdn", "gsm"}

// ColumnMapping is the result of matching a header row against known fields.
type ColumnMapping struct {
	PhoneIdx int // -1 when no phone column was found
	FieldMap map[int]Field
	RawNames []string
}

// MapColumns matches header cells against the alias table. The phone column
// is the leftmost cell that is either a phone alias or contains a phone stem,
// so "Tel. portable,Phone" resolves to column 0.
func MapColumns(header []string) *ColumnMapping {
	m := &ColumnMapping{
		PhoneIdx: -1,
		FieldMap: make(map[int]Field, len(header)),
		RawNames: header,
	}

	for i, h := range header {
		normalized := normalizeHeader(h)
		field, ok := columnAliases[normalized]
		if ok && field != FieldPhone {
			if !m.hasField(field) {
				m.FieldMap[i] = field
			}
			continue
		}
		if m.PhoneIdx >= 0 {
			continue
		}
		if ok || looksLikePhoneHeader(normalized) {
			m.PhoneIdx = i
			m.FieldMap[i] = FieldPhone
		}
	}
	return m
}

// Index returns the column mapped to field, or -1.
func (m *ColumnMapping) Index(field Field) int {
	for i, f := range m.FieldMap {
		if f == field {
			return i
		}
	}
	return -1
}

func (m *ColumnMapping) hasField(field Field) bool {
	return m.Index(field) >= 0
}

func looksLikePhoneHeader(normalized string) bool {
	if normalized == "" {
		return false
	}
	for _, stem := range phoneStems {
		if strings.Contains(normalized, stem) {
			return true
		}
	}
	return false
}

// normalizeHeader lower-cases, trims, strips surrounding quotes, folds accents
// and collapses separators so "Téléphone", " TELEPHONE " and "telephone" match.
func normalizeHeader(h string) string {
	normalized := strings.ToLower(strings.TrimSpace(h))
	normalized = strings.Trim(normalized, "\"'")
	normalized = foldAccents(normalized)
	normalized = strings.ReplaceAll(normalized, "_", " ")
	return strings.Join(strings.Fields(normalized), " ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
