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
Package graphstorage contains classes which model the record store which holds
the vertex graph.

The record store is a hierarchical store of records addressed by slash
separated paths. Records can carry small out-of-band attributes. The store
is not atomic. Missing records and attributes are reported with errors for
which IsNotFound returns true.

There are two storage objects: DiskGraphStorage which stores records as files
with extended attributes and MemoryGraphStorage which provides memory-only
storage.
*/
package graphstorage

import (
	"errors"
	"os"
	"time"
)

/*
RecordInfo holds meta data of a stored record.
*/
type RecordInfo struct {
	ModTime time.Time // Last modification time
	IsDir   bool      // Flag if the record is a directory
	Size    int64     // Size of the record data
}

/*
Storage interface models the record store backend of a graph manager.
*/
type Storage interface {

	/*
	   Name returns the name of the Storage instance.
	*/
	Name() string

	/*
		Create creates an empty record. Returns an error for which
		IsExist returns true if the record already exists.
	*/
	Create(path string) error

	/*
		Read reads the data of a record.
	*/
	Read(path string) ([]byte, error)

	/*
		Write writes the data of a record. An existing record is overwritten.
	*/
	Write(path string, data []byte) error

	/*
		Stat returns meta data of a record.
	*/
	Stat(path string) (*RecordInfo, error)

	/*
		List returns the names of all children of a directory record.
	*/
	List(path string) ([]string, error)

	/*
		Delete removes a record.
	*/
	Delete(path string) error

	/*
		GetAttr reads an out-of-band attribute of a record.
	*/
	GetAttr(path string, name string) ([]byte, error)

	/*
		SetAttr writes an out-of-band attribute of a record.
	*/
	SetAttr(path string, name string, value []byte) error

	/*
		Close closes the storage.
	*/
	Close() error
}

/*
IsNotFound checks if a given storage error reports a missing record or attribute.
*/
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

/*
IsExist checks if a given storage error reports an already existing record.
*/
func IsExist(err error) bool {
	return errors.Is(err, os.ErrExist)
}
