package service

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/engagesphere/api/internal/entity"
)

const defaultPhoneRegion = "US"

var idnaProfile = idna.Lookup

// ContactNormalizer canonicalises contact details before they enter the directory.
type ContactNormalizer struct {
	DefaultRegion string
}

// NewContactNormalizer builds a normalizer; an empty region falls back to US numbering.
func NewContactNormalizer(defaultRegion string) *ContactNormalizer {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactNormalizer{DefaultRegion: region}
}

// Normalize trims the contact name, lower-cases the email with an ASCII domain and formats the
// phone number as E.164. Values that cannot be normalised are returned trimmed so that record
// validation can reject them.
func (n *ContactNormalizer) Normalize(contact entity.ContactInfo) entity.ContactInfo {
	return entity.ContactInfo{
		Name:  strings.TrimSpace(contact.Name),
		Email: normalizeEmail(contact.Email),
		Phone: n.normalizePhone(contact.Phone),
	}
}

func normalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	local, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return email
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return email
	}
	return local + "@" + asciiDomain
}

func (n *ContactNormalizer) normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, n.DefaultRegion)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
