package service

import (
	"log/slog"
	"time"

	"github.com/adriaway/booking/internal/cache"
	"github.com/adriaway/booking/internal/domain"
	"github.com/adriaway/booking/internal/notifier"
	redisx "github.com/adriaway/booking/internal/redis"
	"github.com/adriaway/booking/internal/repository"
	redisrepo "github.com/adriaway/booking/internal/repository/redis"
	"github.com/adriaway/booking/internal/service/admin"
	"github.com/adriaway/booking/internal/service/booking"
	"github.com/adriaway/booking/internal/service/query"
)

type Services struct {
	Query   *query.Service
	Booking *booking.Service
	Admin   *admin.Service
}

func NewServices(
	store repository.BookingStore,
	slotCache cache.SlotCache,
	generate func(time.Time) []domain.TimeSlot,
	filter query.Availability,
	n notifier.Notifier,
	limiter *redisrepo.SlidingWindowLimiter,
	pubsub *redisx.BookingsPubSub,
	adminEmail string,
	logger *slog.Logger,
) *Services {
	return &Services{
		Query:   query.New(generate, filter, slotCache),
		Booking: booking.New(store, n, generate, limiter, pubsub, adminEmail, logger),
		Admin:   admin.New(store, n, pubsub, adminEmail, logger),
	}
}
