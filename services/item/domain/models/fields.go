package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Length constraints shared by ItemName and ItemDescription.
const (
	minFieldLength = 3
	maxFieldLength = 50
)

// ItemName is a value object representing a valid item name.
// Constraints: non-blank, 3 <= len <= 50.
type ItemName string

// NewItemName constructs a valid ItemName or returns an error if constraints are violated.
func NewItemName(s string) (ItemName, error) {
	if err := checkField("item name", s); err != nil {
		return "", err
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

// ItemDescription is a value object representing a valid item description.
// It carries the same structural constraints as ItemName.
type ItemDescription string

// NewItemDescription constructs a valid ItemDescription or returns an error
// if constraints are violated.
func NewItemDescription(s string) (ItemDescription, error) {
	if err := checkField("item description", s); err != nil {
		return "", err
	}
	return ItemDescription(s), nil
}

// String returns the underlying string value.
func (d ItemDescription) String() string {
	return string(d)
}

func checkField(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s must not be blank", field)
	}
	// Length limits count characters, not bytes, matching the varchar(50)
	// column and the request validation tags.
	switch n := utf8.RuneCountInString(s); {
	case n < minFieldLength:
		return fmt.Errorf("%s must be at least %d characters", field, minFieldLength)
	case n > maxFieldLength:
		return fmt.Errorf("%s must not exceed %d characters", field, maxFieldLength)
	}
	return nil
}
