package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"room-scheduler-api/internal/model"
)

const roomColumns = `id, name, COALESCE(location,''), COALESCE(capacity,0)`

func (s *Store) CreateRoom(ctx context.Context, r *model.Room) error {
	return s.withConn(ctx, "create room", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			`INSERT INTO rooms (name, location, capacity) VALUES ($1,$2,$3)`,
			r.Name, r.Location, r.Capacity,
		)
		return err
	})
}

func (s *Store) ListRooms(ctx context.Context) ([]model.Room, error) {
	out := []model.Room{}
	err := s.withConn(ctx, "list rooms", func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, `SELECT `+roomColumns+` FROM rooms`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r model.Room
			if err := rows.Scan(&r.ID, &r.Name, &r.Location, &r.Capacity); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	return out, err
}

func (s *Store) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	r := &model.Room{}
	err := s.withConn(ctx, "get room", func(c *pgxpool.Conn) error {
		return c.QueryRow(ctx,
			`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id,
		).Scan(&r.ID, &r.Name, &r.Location, &r.Capacity)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) UpdateRoom(ctx context.Context, id int64, r *model.Room) error {
	return s.withConn(ctx, "update room", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			`UPDATE rooms SET name=$1, location=$2, capacity=$3 WHERE id=$4`,
			r.Name, r.Location, r.Capacity, id,
		)
		return err
	})
}

// DeleteRoom fails with an integrity error while an appointment still
// references the room.
func (s *Store) DeleteRoom(ctx context.Context, id int64) error {
	return s.withConn(ctx, "delete room", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
		return err
	})
}
