package db

import "database/sql"

type User struct {
	GoogleId string
	Username sql.NullString
	Password sql.NullString
}
