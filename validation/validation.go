package validation

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Violation codes. They double as i18n message keys.
const (
	CodeRequired        = "required"
	CodeBlank           = "blank"
	CodeTooLong         = "too_long"
	CodeInvalid         = "invalid"
	CodeInvalidEmail    = "invalid_email"
	CodeInvalidUsername = "invalid_username"
	CodeDoesNotExist    = "does_not_exist"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, CodeRequired)
	}
}

func MaxLength(field, value string, max int, v Violations) {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, CodeTooLong)
	}
}

// Email accepts a bare address only ("a@b.c"), not a display-name form.
func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@"):], ".") {
		v.Add(field, CodeInvalidEmail)
	}
}

// Username enforces letters, digits and @.+-_ up to 150 characters.
func Username(field, value string, v Violations) {
	if value == "" {
		return
	}
	if utf8.RuneCountInString(value) > 150 {
		v.Add(field, CodeTooLong)
		return
	}
	if !usernameRe.MatchString(value) {
		v.Add(field, CodeInvalidUsername)
	}
}

// ID parses a positive integer identifier.
func ID(field, value string, v Violations) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		v.Add(field, CodeInvalid)
		return 0
	}
	return uint(id)
}

// IDList parses repeated or comma separated identifiers, dropping duplicates.
func IDList(field string, values []string, v Violations) []uint {
	var ids []uint
	seen := make(map[uint]struct{})
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				v.Add(field, CodeInvalid)
				return nil
			}
			if _, dup := seen[uint(id)]; dup {
				continue
			}
			seen[uint(id)] = struct{}{}
			ids = append(ids, uint(id))
		}
	}
	return ids
}
