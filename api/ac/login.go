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
	"sync"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/logutil"
	"devt.de/krotik/vdevd/graph/util"
)

var logger = logutil.GetLogger("vdevd.ac")

/*
Authenticator checks user credentials against a directory.
*/
type Authenticator struct {
	dir            Directory          // Directory which holds the users
	allowedRetries int                // Number of retries a user has to enter the correct password
	failedLogins   *datautil.MapCache // Map of failed login attempts per user
	debounceUsers  *datautil.MapCache // Map of users which have to wait after too many failed attempts
	mutex          *sync.Mutex        // Mutex for failure counting
}

/*
NewAuthenticator creates a new Authenticator. A user name is blocked for
debounce seconds after allowedRetries failed attempts.
*/
func NewAuthenticator(dir Directory, allowedRetries int, debounce int64) *Authenticator {
	return &Authenticator{
		dir,
		allowedRetries,
		datautil.NewMapCache(0, debounce),
		datautil.NewMapCache(0, debounce),
		&sync.Mutex{},
	}
}

/*
Directory returns the directory of this authenticator.
*/
func (a *Authenticator) Directory() Directory {
	return a.dir
}

/*
Authenticate checks the given credentials and returns the user identifier.
Unknown users, wrong passwords, blocked users and directory errors all result
in the same ErrAuthFailure error.
*/
func (a *Authenticator) Authenticate(name string, password string) (string, error) {

	if _, ok := a.debounceUsers.Get(name); ok {
		logger.Info("Authentication for user ", name, " rejected: too many failed attempts")
		return "", &util.GraphError{Type: util.ErrAuthFailure}
	}

	user, err := a.dir.FindByUsername(name)

	if err != nil {
		logger.Error("Could not lookup user ", name, ": ", err)

	} else if user != nil && CheckPassword(user.PasswordHash, password) {

		if util.IsValidIdentifier(user.UID) {
			a.mutex.Lock()
			a.failedLogins.Remove(name)
			a.mutex.Unlock()

			return user.UID, nil
		}

		logger.Error("User ", name, " has an invalid uid: ", user.UID)
	}

	logger.Info("Authentication for user ", name, " failed")

	a.recordFailure(name)

	return "", &util.GraphError{Type: util.ErrAuthFailure}
}

/*
recordFailure counts a failed attempt and blocks the user if there were too
many.
*/
func (a *Authenticator) recordFailure(name string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	count := 1

	if val, ok := a.failedLogins.Get(name); ok {
		count = val.(int) + 1
	}

	if a.allowedRetries > 0 && count >= a.allowedRetries {
		a.failedLogins.Remove(name)
		a.debounceUsers.Put(name, true)
		return
	}

	a.failedLogins.Put(name, count)
}
