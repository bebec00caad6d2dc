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
	"encoding/json"
	"sort"
	"sync"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/vdevd/graph/util"
)

/*
FileDirectory is a user directory which is stored in a file.
*/
type FileDirectory struct {
	users *datautil.PersistentStringMap // Persistent map of user name to JSON encoded user
	mutex *sync.RWMutex                 // Mutex for map operations
}

/*
NewFileDirectory opens a file based user directory. The file is created if
it does not exist.
*/
func NewFileDirectory(filename string) (*FileDirectory, error) {
	var users *datautil.PersistentStringMap

	ok, err := fileutil.PathExists(filename)

	if err == nil {
		if ok {
			users, err = datautil.LoadPersistentStringMap(filename)
		} else {
			users, err = datautil.NewPersistentStringMap(filename)
		}
	}

	if err != nil {
		return nil, err
	}

	return &FileDirectory{users, &sync.RWMutex{}}, nil
}

/*
FindByUsername looks up a user.
*/
func (fd *FileDirectory) FindByUsername(name string) (*User, error) {
	fd.mutex.RLock()
	defer fd.mutex.RUnlock()

	val, ok := fd.users.Data[name]
	if !ok {
		return nil, nil
	}

	user := &User{}

	if err := json.Unmarshal([]byte(val), user); err != nil {
		return nil, err
	}

	user.Name = name

	return user, nil
}

/*
AddUser adds or replaces a user.
*/
func (fd *FileDirectory) AddUser(user *User) error {
	fd.mutex.Lock()
	defer fd.mutex.Unlock()

	val, err := json.Marshal(user)
	if err != nil {
		return err
	}

	fd.users.Data[user.Name] = string(val)

	return fd.users.Flush()
}

/*
RemoveUser removes a user.
*/
func (fd *FileDirectory) RemoveUser(name string) error {
	fd.mutex.Lock()
	defer fd.mutex.Unlock()

	if _, ok := fd.users.Data[name]; !ok {
		return &util.GraphError{Type: util.ErrNotFound, Detail: name}
	}

	delete(fd.users.Data, name)

	return fd.users.Flush()
}

/*
UserNames returns the sorted names of all users.
*/
func (fd *FileDirectory) UserNames() ([]string, error) {
	fd.mutex.RLock()
	defer fd.mutex.RUnlock()

	res := make([]string, 0, len(fd.users.Data))
	for name := range fd.users.Data {
		res = append(res, name)
	}

	sort.Strings(res)

	return res, nil
}

/*
Close closes the directory.
*/
func (fd *FileDirectory) Close() error {
	fd.mutex.Lock()
	defer fd.mutex.Unlock()

	return fd.users.Flush()
}
