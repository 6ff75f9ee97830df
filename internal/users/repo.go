package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, username, name, email, phone FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Phone); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) CreateUser(ctx context.Context, u User) (int64, error) {
	if err := r.checkUsernameFree(ctx, u.Username, 0); err != nil {
		return 0, err
	}
	var id int64
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users (username, name, email, phone) VALUES ($1,$2,$3,$4) RETURNING id`,
		u.Username, u.Name, u.Email, u.Phone).Scan(&id)
	return id, err
}

func (r *Repo) UpdateUser(ctx context.Context, u User) error {
	// Username boleh sama dengan milik sendiri, tapi tidak boleh nabrak user lain.
	if err := r.checkUsernameFree(ctx, u.Username, u.ID); err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET username=$1, name=$2, email=$3, phone=$4 WHERE id=$5`,
		u.Username, u.Name, u.Email, u.Phone, u.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) checkUsernameFree(ctx context.Context, username string, selfID int64) error {
	var id int64
	err := r.DB.QueryRow(ctx,
		`SELECT id FROM users WHERE username=$1 AND id != $2`, username, selfID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("username %q: %w", username, ErrUsernameTaken)
}
