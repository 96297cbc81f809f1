package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"room-scheduler-api/internal/model"
)

const appointmentColumns = `id, COALESCE(user_id,0), COALESCE(room_id,0), start_time, end_time,
	COALESCE(purpose,''), COALESCE(status,'')`

// timestamps are stored zone-less, always as UTC
func utc(t model.Timestamp) time.Time { return t.UTC() }

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	var start, end *time.Time
	if err := row.Scan(&a.ID, &a.UserID, &a.RoomID, &start, &end, &a.Purpose, &a.Status); err != nil {
		return err
	}
	if start != nil {
		a.StartTime = model.Timestamp{Time: *start}
	}
	if end != nil {
		a.EndTime = model.Timestamp{Time: *end}
	}
	return nil
}

// CreateAppointment relies on the foreign keys to reject unknown users
// and rooms; nothing is checked up front.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return s.withConn(ctx, "create appointment", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			`INSERT INTO appointments (user_id, room_id, start_time, end_time, purpose)
			 VALUES ($1,$2,$3,$4,$5)`,
			a.UserID, a.RoomID, utc(a.StartTime), utc(a.EndTime), a.Purpose,
		)
		return err
	})
}

func (s *Store) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	out := []model.Appointment{}
	err := s.withConn(ctx, "list appointments", func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var a model.Appointment
			if err := scanAppointment(rows, &a); err != nil {
				return err
			}
			out = append(out, a)
		}
		return rows.Err()
	})
	return out, err
}

func (s *Store) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.withConn(ctx, "get appointment", func(c *pgxpool.Conn) error {
		return scanAppointment(c.QueryRow(ctx,
			`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id), a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAppointment replaces everything but status.
func (s *Store) UpdateAppointment(ctx context.Context, id int64, a *model.Appointment) error {
	return s.withConn(ctx, "update appointment", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			`UPDATE appointments
			 SET user_id=$1, room_id=$2, start_time=$3, end_time=$4, purpose=$5
			 WHERE id=$6`,
			a.UserID, a.RoomID, utc(a.StartTime), utc(a.EndTime), a.Purpose, id,
		)
		return err
	})
}

// DeleteAppointment removes the row; there is no soft cancel.
func (s *Store) DeleteAppointment(ctx context.Context, id int64) error {
	return s.withConn(ctx, "delete appointment", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id)
		return err
	})
}
