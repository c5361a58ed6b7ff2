package common

import "errors"

var (
	ErrorInvalidData = errors.New("invalid data")

	// Settings validation.
	ErrorUnknownSetting = errors.New("unknown setting")
	ErrorInvalidSetting = errors.New("invalid setting value")
)
