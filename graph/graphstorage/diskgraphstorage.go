/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graphstorage

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/vdevd/graph/util"
	"github.com/pkg/xattr"
)

/*
DiskGraphStorage data structure
*/
type DiskGraphStorage struct {
	name string // Root directory of the record store
}

/*
NewDiskGraphStorage creates a new DiskGraphStorage instance. The root directory
must exist (usually a mounted device filesystem).
*/
func NewDiskGraphStorage(name string) (Storage, error) {

	if ok, err := fileutil.IsDir(name); err != nil || !ok {
		detail := "Not a directory: " + name
		if err != nil {
			detail = err.Error()
		}
		return nil, &util.GraphError{Type: util.ErrStore, Detail: detail}
	}

	return &DiskGraphStorage{name}, nil
}

/*
Name returns the name of the DiskGraphStorage instance.
*/
func (dgs *DiskGraphStorage) Name() string {
	return dgs.name
}

/*
Create creates an empty record.
*/
func (dgs *DiskGraphStorage) Create(path string) error {
	loc := dgs.location(path)

	if err := os.MkdirAll(filepath.Dir(loc), 0770); err != nil {
		return err
	}

	file, err := os.OpenFile(loc, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	return file.Close()
}

/*
Read reads the data of a record.
*/
func (dgs *DiskGraphStorage) Read(path string) ([]byte, error) {
	return ioutil.ReadFile(dgs.location(path))
}

/*
Write writes the data of a record.
*/
func (dgs *DiskGraphStorage) Write(path string, data []byte) error {
	loc := dgs.location(path)

	if err := os.MkdirAll(filepath.Dir(loc), 0770); err != nil {
		return err
	}

	return ioutil.WriteFile(loc, data, 0644)
}

/*
Stat returns meta data of a record.
*/
func (dgs *DiskGraphStorage) Stat(path string) (*RecordInfo, error) {
	info, err := os.Stat(dgs.location(path))
	if err != nil {
		return nil, err
	}

	return &RecordInfo{info.ModTime(), info.IsDir(), info.Size()}, nil
}

/*
List returns the names of all children of a directory record.
*/
func (dgs *DiskGraphStorage) List(path string) ([]string, error) {
	files, err := ioutil.ReadDir(dgs.location(path))
	if err != nil {
		return nil, err
	}

	res := make([]string, 0, len(files))
	for _, f := range files {
		res = append(res, f.Name())
	}

	return res, nil
}

/*
Delete removes a record.
*/
func (dgs *DiskGraphStorage) Delete(path string) error {
	return os.Remove(dgs.location(path))
}

/*
GetAttr reads an extended attribute of a record.
*/
func (dgs *DiskGraphStorage) GetAttr(path string, name string) ([]byte, error) {
	loc := dgs.location(path)

	val, err := xattr.Get(loc, name)

	if xerr, ok := err.(*xattr.Error); ok && xerr.Err == xattr.ENOATTR {
		err = &os.PathError{Op: "getxattr " + name, Path: loc, Err: os.ErrNotExist}
	}

	return val, err
}

/*
SetAttr writes an extended attribute of a record.
*/
func (dgs *DiskGraphStorage) SetAttr(path string, name string, value []byte) error {
	return xattr.Set(dgs.location(path), name, value)
}

/*
Close closes the storage.
*/
func (dgs *DiskGraphStorage) Close() error {
	return nil
}

/*
location returns the file system location of a record path.
*/
func (dgs *DiskGraphStorage) location(path string) string {
	return filepath.Join(dgs.name, filepath.FromSlash(path))
}
