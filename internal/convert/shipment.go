package convert

import (
	"strings"

	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
)

var documentKeywords = []string{
	"document", "documents",
	"paper", "papers",
	"letter", "letters",
	"file", "files",
}

// ShipmentType labels a shipment DOCUMENT when any item description
// mentions paperwork, NON_DOCUMENT otherwise (including an empty list).
func ShipmentType(descriptions []string) string {
	for _, d := range descriptions {
		low := strings.ToLower(d)
		for _, kw := range documentKeywords {
			if strings.Contains(low, kw) {
				return domain.ShipmentDocument
			}
		}
	}
	return domain.ShipmentNonDocument
}
