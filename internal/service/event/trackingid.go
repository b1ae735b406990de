package event

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// trackingAlphabet avoids characters that are easy to misread over the
// phone or on a handwritten form (no 0/O, 1/I/L).
const trackingAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const trackingIDLength = 7

// NewTrackingID returns a short human-quotable identifier used by
// informants to follow up on a declaration.
func NewTrackingID() string {
	buf := make([]byte, trackingIDLength)
	max := big.NewInt(int64(len(trackingAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform's entropy source is
			// broken; nothing sensible to do but stop.
			panic(fmt.Sprintf("tracking id: %v", err))
		}
		buf[i] = trackingAlphabet[n.Int64()]
	}
	return string(buf)
}

// newRegistrationNumber derives the legal registration number issued when
// an event is registered.
func newRegistrationNumber(now time.Time, trackingID string) string {
	return fmt.Sprintf("%d-%s", now.Year(), trackingID)
}
