package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"room-scheduler-api/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return s.withConn(ctx, "create user", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			`INSERT INTO users (name, email) VALUES ($1,$2)`,
			u.Name, u.Email,
		)
		return err
	})
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := s.withConn(ctx, "list users", func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, `SELECT id, name, COALESCE(email,'') FROM users`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u model.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	return out, err
}

func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := s.withConn(ctx, "get user", func(c *pgxpool.Conn) error {
		return c.QueryRow(ctx,
			`SELECT id, name, COALESCE(email,'') FROM users WHERE id = $1`, id,
		).Scan(&u.ID, &u.Name, &u.Email)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser replaces name and email; a missing id is not an error.
func (s *Store) UpdateUser(ctx context.Context, id int64, u *model.User) error {
	return s.withConn(ctx, "update user", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			`UPDATE users SET name=$1, email=$2 WHERE id=$3`,
			u.Name, u.Email, id,
		)
		return err
	})
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.withConn(ctx, "delete user", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
		return err
	})
}
