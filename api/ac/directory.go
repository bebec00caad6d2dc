/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package ac contains the user directory and the authentication of vdevd.

Directory

A directory maps user names to password hashes and user identifiers. A user
identifier is the name of the user namespace in the vertex graph. There are
three directory implementations: a file based directory, a SQLite based
directory and a memory-only directory.

Password hashes are either bcrypt hashes or (for directories which were
created by older tools) hex encoded MD5 hashes.

Authenticator

An Authenticator checks credentials against a directory. Failed attempts are
counted per user name. After too many failed attempts the user name is
blocked for a debounce period during which all attempts fail without
consulting the directory.
*/
package ac

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/vdevd/config"
	"devt.de/krotik/vdevd/graph/util"
	"golang.org/x/crypto/bcrypt"
)

/*
User is a directory entry.
*/
type User struct {
	Name         string `json:"user"`     // Name of the user
	UID          string `json:"uid"`      // Identifier of the user namespace
	PasswordHash string `json:"password"` // Password hash (bcrypt or MD5 hex)
}

/*
Directory models a user directory.
*/
type Directory interface {

	/*
		FindByUsername looks up a user. Returns nil if the user does not exist.
	*/
	FindByUsername(name string) (*User, error)

	/*
		AddUser adds or replaces a user.
	*/
	AddUser(user *User) error

	/*
		RemoveUser removes a user. Returns an ErrNotFound error if the user
		does not exist.
	*/
	RemoveUser(name string) error

	/*
		UserNames returns the sorted names of all users.
	*/
	UserNames() ([]string, error)

	/*
		Close closes the directory.
	*/
	Close() error
}

/*
NewDirectory opens a directory of a given type (see config.DirectoryType).
*/
func NewDirectory(dirType string, location string) (Directory, error) {

	switch dirType {
	case config.DirectoryTypeFile:
		return NewFileDirectory(location)
	case config.DirectoryTypeSQLite:
		return NewSQLDirectory(location)
	}

	return nil, fmt.Errorf("Unknown directory type: %v", dirType)
}

/*
NewUser creates a new directory entry with a bcrypt password hash. A new
user identifier is generated if uid is empty.
*/
func NewUser(name string, password string, uid string) (*User, error) {

	if name == "" {
		return nil, fmt.Errorf("User name must not be empty")
	}

	if uid == "" {
		uuid := cryptutil.GenerateUUID()
		uid = hex.EncodeToString(uuid[:])
	}

	if err := util.CheckIdentifier(uid); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{name, uid, hash}, nil
}

/*
HashPassword hashes a password with bcrypt.
*/
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

/*
CheckPassword checks a password against a stored hash.
*/
func CheckPassword(hash string, password string) bool {

	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)),
		[]byte(stringutil.MD5HexString(password))) == 1
}
