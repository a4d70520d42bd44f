package utils

import (
	"log"
	"strings"
)

// LogEvent prints one standardized pipeline log line. Booking payloads can
// carry PII and photo blobs; message must stay a summary, never raw data.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[KN][%s] %s rid=%s %s", strings.ToUpper(module), action, req, message)
}
