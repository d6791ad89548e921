package config

import (
	"errors"
	"fmt"
)

var errMissingSecret = errors.New("JWT_SECRET must be set")

func errUnknownStorage(s string) error {
	return fmt.Errorf("unknown storage %q: want mysql, postgres or memory", s)
}
