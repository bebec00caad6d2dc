/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ac

import (
	"database/sql"
	"fmt"

	"devt.de/krotik/vdevd/graph/util"

	_ "modernc.org/sqlite" // SQLite driver
)

const userDBSchema = `
CREATE TABLE IF NOT EXISTS userdb (
	user     TEXT PRIMARY KEY,
	uid      TEXT NOT NULL,
	password TEXT NOT NULL
);
`

/*
SQLDirectory is a user directory which is stored in a SQLite database.
*/
type SQLDirectory struct {
	db *sql.DB // Database connection
}

/*
NewSQLDirectory opens a SQLite based user directory. The userdb table is
created if it does not exist.
*/
func NewSQLDirectory(dsn string) (*SQLDirectory, error) {

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("Could not open user database: %w", err)
	}

	// SQLite allows only one writer

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(userDBSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Could not create user table: %w", err)
	}

	return &SQLDirectory{db}, nil
}

/*
FindByUsername looks up a user.
*/
func (sd *SQLDirectory) FindByUsername(name string) (*User, error) {
	user := &User{Name: name}

	err := sd.db.QueryRow("SELECT uid, password FROM userdb WHERE user = ?",
		name).Scan(&user.UID, &user.PasswordHash)

	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return user, nil
}

/*
AddUser adds or replaces a user.
*/
func (sd *SQLDirectory) AddUser(user *User) error {
	_, err := sd.db.Exec("INSERT OR REPLACE INTO userdb (user, uid, password) VALUES (?, ?, ?)",
		user.Name, user.UID, user.PasswordHash)
	return err
}

/*
RemoveUser removes a user.
*/
func (sd *SQLDirectory) RemoveUser(name string) error {
	res, err := sd.db.Exec("DELETE FROM userdb WHERE user = ?", name)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return &util.GraphError{Type: util.ErrNotFound, Detail: name}
	}

	return nil
}

/*
UserNames returns the sorted names of all users.
*/
func (sd *SQLDirectory) UserNames() ([]string, error) {
	rows, err := sd.db.Query("SELECT user FROM userdb ORDER BY user")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]string, 0)

	for rows.Next() {
		var name string

		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		res = append(res, name)
	}

	return res, rows.Err()
}

/*
Close closes the directory.
*/
func (sd *SQLDirectory) Close() error {
	return sd.db.Close()
}
