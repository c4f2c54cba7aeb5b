package booking

import (
	"fmt"
	"strconv"

	"github.com/camachodev/courtfile/pkg/flatfile"
)

// Persisted row schemas.
var (
	CourtSchema       = flatfile.MustSchema("courts", "id", "sport_id", "name", "status", "schedule", "available_days", "features", "price_per_hour")
	ReservationSchema = flatfile.MustSchema("reservations", "id", "user_id", "court_id", "court_name", "date", "time", "price", "created_at", "status")
)

// Reservation lifecycle. Cancellation flips the status in place; rows are
// never removed from the reservations file.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const dateLayout = "2006-01-02"

// Court is a static catalog entry, read-mostly reference data.
type Court struct {
	ID            string `json:"id"`
	SportID       string `json:"sport_id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Schedule      string `json:"schedule"`
	AvailableDays string `json:"available_days"`
	Features      string `json:"features"`
	PricePerHour  int    `json:"price_per_hour"`
}

// Reservation is one booked slot.
type Reservation struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	CourtID   string `json:"court_id"`
	CourtName string `json:"court_name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Price     int    `json:"price"`
	CreatedAt string `json:"created_at"`
	Status    string `json:"status"`
}

// SlotView is the reduced reservation view returned for a court-and-date
// availability query.
type SlotView struct {
	ID     string `json:"id"`
	Time   string `json:"time"`
	UserID string `json:"user_id"`
}

func courtToRow(court Court) flatfile.Row {
	return flatfile.Row{
		"id":             court.ID,
		"sport_id":       court.SportID,
		"name":           court.Name,
		"status":         court.Status,
		"schedule":       court.Schedule,
		"available_days": court.AvailableDays,
		"features":       court.Features,
		"price_per_hour": strconv.Itoa(court.PricePerHour),
	}
}

func courtFromRow(row flatfile.Row) (Court, error) {
	price, err := strconv.Atoi(row["price_per_hour"])
	if err != nil {
		return Court{}, fmt.Errorf("court %s: bad price_per_hour %q: %w", row["id"], row["price_per_hour"], err)
	}
	return Court{
		ID:            row["id"],
		SportID:       row["sport_id"],
		Name:          row["name"],
		Status:        row["status"],
		Schedule:      row["schedule"],
		AvailableDays: row["available_days"],
		Features:      row["features"],
		PricePerHour:  price,
	}, nil
}

func reservationToRow(reservation Reservation) flatfile.Row {
	return flatfile.Row{
		"id":         reservation.ID,
		"user_id":    reservation.UserID,
		"court_id":   reservation.CourtID,
		"court_name": reservation.CourtName,
		"date":       reservation.Date,
		"time":       reservation.Time,
		"price":      strconv.Itoa(reservation.Price),
		"created_at": reservation.CreatedAt,
		"status":     reservation.Status,
	}
}

func reservationFromRow(row flatfile.Row) (Reservation, error) {
	price, err := strconv.Atoi(row["price"])
	if err != nil {
		return Reservation{}, fmt.Errorf("reservation %s: bad price %q: %w", row["id"], row["price"], err)
	}
	return Reservation{
		ID:        row["id"],
		UserID:    row["user_id"],
		CourtID:   row["court_id"],
		CourtName: row["court_name"],
		Date:      row["date"],
		Time:      row["time"],
		Price:     price,
		CreatedAt: row["created_at"],
		Status:    row["status"],
	}, nil
}
