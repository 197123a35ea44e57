// Package http serves the trust UI: server-rendered views, form posts that
// mutate the store, and a JSON export/import of the whole aggregate.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"trust/internal/core"
	"trust/internal/services"
)

// maxBodyBytes bounds form and import bodies.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a body once and exposes it as key/value pairs,
// whether it was sent form-encoded or as a JSON object.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' || strings.Contains(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized value for key.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

// errFieldAmount marks an amount field that is not a whole rupee value.
var errFieldAmount = errors.New("amount")

// ParseRegistration maps the registration form onto service input.
func ParseRegistration(p *RequestBodyParser) services.RegistrationInput {
	return services.RegistrationInput{
		Name:     p.Get("name"),
		Phone:    p.Get("phone"),
		Village:  p.Get("village"),
		Category: core.Category(p.Get("category")),
	}
}

// ParseDonation maps the donation form onto service input.
func ParseDonation(p *RequestBodyParser) (services.DonationInput, error) {
	amount, err := core.ParseRupees(p.Get("amount"))
	if err != nil {
		return services.DonationInput{}, errors.Join(errFieldAmount, err)
	}
	return services.DonationInput{
		Amount:    amount,
		MemberID:  p.Get("member_id"),
		DonorName: p.Get("donor_name"),
		Note:      p.Get("note"),
	}, nil
}
