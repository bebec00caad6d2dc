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
	"sort"
	"sync"

	"devt.de/krotik/vdevd/graph/util"
)

/*
MemoryDirectory is a memory-only user directory.
*/
type MemoryDirectory struct {
	users map[string]User // Map of user name to user
	mutex *sync.RWMutex   // Mutex for map operations

	/*
		LookupHook is called before every lookup. A returned error is
		returned by the lookup (used for error injection in tests).
	*/
	LookupHook func(name string) error
}

/*
NewMemoryDirectory creates a new memory-only user directory.
*/
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{make(map[string]User), &sync.RWMutex{}, nil}
}

/*
FindByUsername looks up a user.
*/
func (md *MemoryDirectory) FindByUsername(name string) (*User, error) {
	md.mutex.RLock()
	defer md.mutex.RUnlock()

	if md.LookupHook != nil {
		if err := md.LookupHook(name); err != nil {
			return nil, err
		}
	}

	user, ok := md.users[name]
	if !ok {
		return nil, nil
	}

	return &user, nil
}

/*
AddUser adds or replaces a user.
*/
func (md *MemoryDirectory) AddUser(user *User) error {
	md.mutex.Lock()
	defer md.mutex.Unlock()

	md.users[user.Name] = *user

	return nil
}

/*
RemoveUser removes a user.
*/
func (md *MemoryDirectory) RemoveUser(name string) error {
	md.mutex.Lock()
	defer md.mutex.Unlock()

	if _, ok := md.users[name]; !ok {
		return &util.GraphError{Type: util.ErrNotFound, Detail: name}
	}

	delete(md.users, name)

	return nil
}

/*
UserNames returns the sorted names of all users.
*/
func (md *MemoryDirectory) UserNames() ([]string, error) {
	md.mutex.RLock()
	defer md.mutex.RUnlock()

	res := make([]string, 0, len(md.users))
	for name := range md.users {
		res = append(res, name)
	}

	sort.Strings(res)

	return res, nil
}

/*
Close closes the directory.
*/
func (md *MemoryDirectory) Close() error {
	return nil
}
