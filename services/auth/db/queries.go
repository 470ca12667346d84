package db

import (
	"context"
	"database/sql"
)

const getUserByGoogleId = `
SELECT google_id, username, password FROM user WHERE google_id = ?
`

func (q *Queries) GetUserByGoogleId(ctx context.Context, googleId string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByGoogleId, googleId)
	var u User
	err := row.Scan(&u.GoogleId, &u.Username, &u.Password)
	return u, err
}

const getUserByUsername = `
SELECT google_id, username, password FROM user WHERE username = ?
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByUsername, username)
	var u User
	err := row.Scan(&u.GoogleId, &u.Username, &u.Password)
	return u, err
}

const createUser = `
INSERT INTO user (google_id, username, password) VALUES (?, NULL, NULL)
ON CONFLICT (google_id) DO NOTHING
`

func (q *Queries) CreateUser(ctx context.Context, googleId string) error {
	_, err := q.db.ExecContext(ctx, createUser, googleId)
	return err
}

const upsertUserCredentials = `
INSERT INTO user (google_id, username, password) VALUES (?, ?, ?)
ON CONFLICT (google_id) DO UPDATE SET username = excluded.username, password = excluded.password
`

type UpsertUserCredentialsParams struct {
	GoogleId string
	Username sql.NullString
	Password sql.NullString
}

func (q *Queries) UpsertUserCredentials(ctx context.Context, arg UpsertUserCredentialsParams) error {
	_, err := q.db.ExecContext(ctx, upsertUserCredentials, arg.GoogleId, arg.Username, arg.Password)
	return err
}
