package order

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TrackingIDLength is the length of customer-facing tracking identifiers.
const TrackingIDLength = 12

// NewOrderID returns a uniformly random 6-digit decimal order identifier in
// [100000, 999999]. Uniqueness is not checked here; the orders primary key
// rejects the (unlikely) collision instead of silently overwriting.
func NewOrderID() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// NewTrackingID returns a 12-character uppercase base-36 tracking identifier.
func NewTrackingID() string {
	var b strings.Builder
	b.Grow(TrackingIDLength)
	for range TrackingIDLength {
		b.WriteByte(trackingAlphabet[rand.IntN(len(trackingAlphabet))])
	}
	return b.String()
}
