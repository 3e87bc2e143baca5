package availability

import (
	"context"
	"log"
)

// Feed recomputes and broadcasts a room/day projection after the write
// path commits a change. Implements the booking module's notifier
// interface; a nil *Feed is a no-op so the booking service can run
// without one in tests.
type Feed struct {
	hub *Hub
	svc *Service
}

func NewFeed(hub *Hub, svc *Service) *Feed {
	return &Feed{hub: hub, svc: svc}
}

func (f *Feed) ReservationChanged(roomID int64, date string) {
	if f == nil {
		return
	}
	if f.hub.SubscriberCount(roomID, date) == 0 {
		return
	}

	go func() {
		view, err := f.svc.ComputeAvailability(context.Background(), roomID, date, 0)
		if err != nil {
			log.Printf("availability feed: recompute room=%d date=%s: %v", roomID, date, err)
			return
		}
		f.hub.Broadcast(roomID, date, view)
	}()
}
