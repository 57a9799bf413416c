package redisx

import "fmt"

const ns = "adriaway:v1"

// KeySlots addresses a cached filtered slot list. cacheKey is the
// day-route-type composite produced by the cache package.
func KeySlots(cacheKey string) string {
	return fmt.Sprintf("%s:slots:%s", ns, cacheKey)
}

func KeySlotsPattern() string {
	return ns + ":slots:*"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func KeyIdemBooking(idemKey string) string {
	return fmt.Sprintf("%s:idem:bookings:%s", ns, idemKey)
}

func ChannelBookingsChanged() string {
	return ns + ":bookings:changed"
}
