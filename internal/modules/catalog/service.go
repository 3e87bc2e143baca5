package catalog

import (
	"context"

	"roombooking/internal/domain"
	"roombooking/internal/repository"
)

type Service struct {
	hostels *repository.HostelRepository
	rooms   *repository.RoomRepository
}

func NewService(hostels *repository.HostelRepository, rooms *repository.RoomRepository) *Service {
	return &Service{hostels: hostels, rooms: rooms}
}

func (s *Service) ListHostels(ctx context.Context) ([]domain.Hostel, error) {
	return s.hostels.List(ctx)
}

// GetHostelRooms returns the hostel with its rooms attached. Blocked and
// maintenance rooms are included; the availability and booking paths do
// their own status checks.
func (s *Service) GetHostelRooms(ctx context.Context, hostelID int64) (*domain.Hostel, error) {
	hostel, err := s.hostels.GetByID(ctx, hostelID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.GetByHostelID(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	hostel.Rooms = rooms
	return hostel, nil
}

func (s *Service) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, roomID)
}
