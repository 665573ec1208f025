package platform

import (
	"fmt"
	"strings"
)

// Platform identifies the delivery service an export file came from.
// String forms match the platform names used in the source exports.
type Platform string

const (
	UberEats Platform = "Uber Eats"
	DoorDash Platform = "DoorDash"
	Grubhub  Platform = "Grubhub"
)

// All lists the supported platforms in stable report order.
func All() []Platform {
	return []Platform{UberEats, DoorDash, Grubhub}
}

// Parse maps a loose platform name (flag value, file tag) to a Platform.
func Parse(s string) (Platform, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "ubereats", "uber":
		return UberEats, nil
	case "doordash":
		return DoorDash, nil
	case "grubhub":
		return Grubhub, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

func (p Platform) String() string { return string(p) }
