package services

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SequenceSource produces identifier candidates. Candidates are not
// guaranteed free; the identifier service checks the store and asks again.
type SequenceSource interface {
	NextInvoiceCandidate() string
	NextTrackingCandidate(prefix string) string
}

// RandomSequence is the default candidate source.
type RandomSequence struct{}

func (RandomSequence) NextInvoiceCandidate() string {
	u := uuid.New()
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(u[:4])))
}

func (RandomSequence) NextTrackingCandidate(prefix string) string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) % 10_000_000_000
	return fmt.Sprintf("%s%010d", prefix, n)
}
