package id

import "github.com/google/uuid"

// UUID generates a UUID v4 (random).
// Returns a string in the format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func UUID() string {
	return uuid.NewString()
}

// Request returns the id for an incoming request. A well-formed client
// supplied id is kept so that ids can be correlated across services.
func Request(incoming string) string {
	if incoming != "" && len(incoming) <= 128 && isPrintable(incoming) {
		return incoming
	}
	return UUID()
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
