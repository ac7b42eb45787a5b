// Package validate checks form input before it is sent to the API.
//
// The Is* functions report validity. The matching error-returning
// functions plug straight into huh field validators.
package validate

import (
	"errors"
	"net/url"
	"regexp"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
)

// Validation errors.
var (
	ErrRequired = errors.New("this field is required")
	ErrEmail    = errors.New("enter a valid email address")
	ErrUsername = errors.New("3-50 letters, digits or underscores")
	ErrPassword = errors.New("password must be at least 6 characters")
	ErrURL      = errors.New("enter a valid URL")
)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsUsername reports whether s is 3 to 50 ASCII letters, digits or
// underscores.
func IsUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// IsPassword reports whether s is long enough.
func IsPassword(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLength
}

// IsRequired reports whether s is non-empty.
func IsRequired(s string) bool {
	return s != ""
}

// IsURL reports whether s is an absolute URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return u.Host != ""
	}
	return u.Opaque != "" || u.Host != "" || u.Path != ""
}

// Required fails on empty input.
func Required(s string) error {
	if !IsRequired(s) {
		return ErrRequired
	}
	return nil
}

// Email fails on empty or malformed addresses.
func Email(s string) error {
	if err := Required(s); err != nil {
		return err
	}
	if !IsEmail(s) {
		return ErrEmail
	}
	return nil
}

// Username fails on empty or malformed usernames.
func Username(s string) error {
	if err := Required(s); err != nil {
		return err
	}
	if !IsUsername(s) {
		return ErrUsername
	}
	return nil
}

// Password fails on empty or short passwords.
func Password(s string) error {
	if err := Required(s); err != nil {
		return err
	}
	if !IsPassword(s) {
		return ErrPassword
	}
	return nil
}

// URL fails on empty or relative URLs.
func URL(s string) error {
	if err := Required(s); err != nil {
		return err
	}
	if !IsURL(s) {
		return ErrURL
	}
	return nil
}
