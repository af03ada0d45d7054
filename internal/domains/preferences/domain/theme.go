package domain

import (
	"errors"
	"strings"
)

// ErrInvalidMode rejects theme modes other than light, dark and system.
var ErrInvalidMode = errors.New("theme mode must be light, dark or system")

// Mode is the colour scheme preference.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// ParseMode normalizes and validates a mode string.
func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ModeLight, ModeDark, ModeSystem:
		return m, nil
	default:
		return "", ErrInvalidMode
	}
}

// Theme is the persisted theme slice.
type Theme struct {
	Mode Mode `json:"mode"`
}

// DefaultTheme follows the client's system setting.
func DefaultTheme() Theme {
	return Theme{Mode: ModeSystem}
}
