package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camachodev/courtfile/pkg/flatfile"
)

const (
	operationReserve = "reserve"
	operationCancel  = "cancel"

	operationStatusOK    = "ok"
	operationStatusError = "error"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records state-changing booking operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes one reserve or cancel outcome.
type OperationLog struct {
	Operation     string
	ReservationID string
	CourtID       string
	Date          string
	Time          string
	Status        string
	Error         error
}

// WithOperationLogger wires a logger that receives callbacks for every
// mutating operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// Service owns the courts and reservations stores.
type Service struct {
	courts       *flatfile.Store
	reservations *flatfile.Store
	nowFn        func() time.Time
	logger       OperationLogger
}

// NewService wires a Service.
func NewService(courts *flatfile.Store, reservations *flatfile.Store, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if courts == nil || reservations == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{courts: courts, reservations: reservations, nowFn: now}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// SeedCourts writes the fixed catalog when the courts file holds no rows yet.
// Idempotent; safe on every process start.
func (service *Service) SeedCourts(ctx context.Context) error {
	return service.courts.WithLock(func(tx *flatfile.Tx) error {
		existing, err := tx.Scan(nil)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		for _, court := range seedCourts {
			if err := tx.Append(courtToRow(court)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListCourts returns the whole catalog.
func (service *Service) ListCourts(ctx context.Context) ([]Court, error) {
	return service.scanCourts(nil)
}

// CourtsBySport returns the catalog entries for one sport.
func (service *Service) CourtsBySport(ctx context.Context, sportID string) ([]Court, error) {
	if _, known := validSports[sportID]; !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSport, sportID)
	}
	return service.scanCourts(func(row flatfile.Row) bool {
		return row["sport_id"] == sportID
	})
}

// ReservationInput is the caller-supplied part of a new reservation.
type ReservationInput struct {
	UserID    string
	CourtID   string
	CourtName string
	Date      string
	Time      string
	Price     int
}

// Reserve validates the date, then checks the slot and appends the confirmed
// row under one store lock, so two requests for the same slot cannot both
// pass the conflict check.
func (service *Service) Reserve(ctx context.Context, input ReservationInput) (Reservation, error) {
	reservation, operationError := service.reserve(input)
	service.logOperation(ctx, OperationLog{
		Operation:     operationReserve,
		ReservationID: reservation.ID,
		CourtID:       input.CourtID,
		Date:          input.Date,
		Time:          input.Time,
		Error:         operationError,
	})
	return reservation, operationError
}

func (service *Service) reserve(input ReservationInput) (Reservation, error) {
	if strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.CourtID) == "" || strings.TrimSpace(input.Time) == "" {
		return Reservation{}, fmt.Errorf("%w: user_id, court_id and time are required", ErrInvalidReservation)
	}
	if _, err := time.Parse(dateLayout, input.Date); err != nil {
		return Reservation{}, fmt.Errorf("%w: %q", ErrBadDate, input.Date)
	}
	// YYYY-MM-DD compares correctly as a string.
	if today := service.nowFn().Format(dateLayout); input.Date < today {
		return Reservation{}, fmt.Errorf("%w: %s", ErrPastDate, input.Date)
	}

	reservation := Reservation{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		CourtID:   input.CourtID,
		CourtName: input.CourtName,
		Date:      input.Date,
		Time:      input.Time,
		Price:     input.Price,
		CreatedAt: service.nowFn().Format(time.RFC3339),
		Status:    StatusConfirmed,
	}
	err := service.reservations.WithLock(func(tx *flatfile.Tx) error {
		_, taken, findErr := tx.FindOne(func(row flatfile.Row) bool {
			return row["court_id"] == input.CourtID &&
				row["date"] == input.Date &&
				row["time"] == input.Time &&
				row["status"] == StatusConfirmed
		})
		if findErr != nil {
			return findErr
		}
		if taken {
			return fmt.Errorf("%w: court %s on %s at %s", ErrSlotTaken, input.CourtID, input.Date, input.Time)
		}
		return tx.Append(reservationToRow(reservation))
	})
	if err != nil {
		return Reservation{}, err
	}
	return reservation, nil
}

// ForCourtDate returns the confirmed slots of a court on one date.
func (service *Service) ForCourtDate(ctx context.Context, courtID string, date string) ([]SlotView, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	rows, err := service.reservations.Scan(func(row flatfile.Row) bool {
		return row["court_id"] == courtID && row["date"] == date && row["status"] == StatusConfirmed
	})
	if err != nil {
		return nil, err
	}
	slots := make([]SlotView, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, SlotView{ID: row["id"], Time: row["time"], UserID: row["user_id"]})
	}
	return slots, nil
}

// ForUser returns every reservation a user has made, any status.
func (service *Service) ForUser(ctx context.Context, userID string) ([]Reservation, error) {
	return service.scanReservations(func(row flatfile.Row) bool {
		return row["user_id"] == userID
	})
}

// ListAll returns every reservation in the system.
func (service *Service) ListAll(ctx context.Context) ([]Reservation, error) {
	return service.scanReservations(nil)
}

// Cancel flips the reservation's status to cancelled via a whole-file
// rewrite, freeing its slot for re-booking. The row itself stays.
func (service *Service) Cancel(ctx context.Context, reservationID string) error {
	operationError := service.cancel(reservationID)
	service.logOperation(ctx, OperationLog{
		Operation:     operationCancel,
		ReservationID: reservationID,
		Error:         operationError,
	})
	return operationError
}

func (service *Service) cancel(reservationID string) error {
	// Matching is tracked here rather than through the changed-row count:
	// cancelling an already-cancelled reservation leaves the row as it was,
	// and that still must succeed.
	matched := false
	_, err := service.reservations.RewriteAll(func(row flatfile.Row) (flatfile.Row, bool, error) {
		if row["id"] != reservationID {
			return row, true, nil
		}
		matched = true
		updated := make(flatfile.Row, len(row))
		for field, value := range row {
			updated[field] = value
		}
		updated["status"] = StatusCancelled
		return updated, true, nil
	})
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("%w: %s", ErrUnknownReservation, reservationID)
	}
	return nil
}

func (service *Service) scanCourts(keep func(flatfile.Row) bool) ([]Court, error) {
	rows, err := service.courts.Scan(keep)
	if err != nil {
		return nil, err
	}
	courts := make([]Court, 0, len(rows))
	for _, row := range rows {
		court, decodeErr := courtFromRow(row)
		if decodeErr != nil {
			return nil, decodeErr
		}
		courts = append(courts, court)
	}
	return courts, nil
}

func (service *Service) scanReservations(keep func(flatfile.Row) bool) ([]Reservation, error) {
	rows, err := service.reservations.Scan(keep)
	if err != nil {
		return nil, err
	}
	reservations := make([]Reservation, 0, len(rows))
	for _, row := range rows {
		reservation, decodeErr := reservationFromRow(row)
		if decodeErr != nil {
			return nil, decodeErr
		}
		reservations = append(reservations, reservation)
	}
	return reservations, nil
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}
