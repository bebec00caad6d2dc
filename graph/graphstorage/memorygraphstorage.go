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
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

/*
memRecord is a single record of a MemoryGraphStorage.
*/
type memRecord struct {
	data    []byte            // Record data
	modTime time.Time         // Last modification time
	attrs   map[string][]byte // Out-of-band attributes
}

/*
MemoryGraphStorage data structure
*/
type MemoryGraphStorage struct {
	name    string                // Name of the graph storage
	records map[string]*memRecord // Stored records
	dirs    map[string]*memRecord // Directories (data is always empty)
	lock    *sync.RWMutex         // Lock for all data operations

	/*
		NowFunc returns the modification time for new and changed records.
	*/
	NowFunc func() time.Time

	/*
		AccessHook is called before every operation. A returned error is
		returned by the operation (used for error injection in tests).
	*/
	AccessHook func(op string, path string) error
}

/*
NewMemoryGraphStorage creates a new MemoryGraphStorage instance.
*/
func NewMemoryGraphStorage(name string) *MemoryGraphStorage {
	return &MemoryGraphStorage{name, make(map[string]*memRecord),
		make(map[string]*memRecord), &sync.RWMutex{}, time.Now, nil}
}

/*
Name returns the name of the MemoryGraphStorage instance.
*/
func (mgs *MemoryGraphStorage) Name() string {
	return mgs.name
}

/*
MkdirAll creates a directory record and all its parents.
*/
func (mgs *MemoryGraphStorage) MkdirAll(p string) error {
	if err := mgs.access("mkdir", p); err != nil {
		return err
	}

	mgs.lock.Lock()
	defer mgs.lock.Unlock()

	return mgs.mkdirAll(clean(p))
}

/*
Create creates an empty record.
*/
func (mgs *MemoryGraphStorage) Create(p string) error {
	if err := mgs.access("create", p); err != nil {
		return err
	}

	mgs.lock.Lock()
	defer mgs.lock.Unlock()

	p = clean(p)

	if _, ok := mgs.records[p]; ok {
		return &os.PathError{Op: "create", Path: p, Err: os.ErrExist}
	}

	return mgs.write(p, nil)
}

/*
Read reads the data of a record.
*/
func (mgs *MemoryGraphStorage) Read(p string) ([]byte, error) {
	if err := mgs.access("read", p); err != nil {
		return nil, err
	}

	mgs.lock.RLock()
	defer mgs.lock.RUnlock()

	p = clean(p)

	if _, ok := mgs.dirs[p]; ok {
		return nil, &os.PathError{Op: "read", Path: p, Err: syscall.EISDIR}
	}

	rec, ok := mgs.records[p]
	if !ok {
		return nil, &os.PathError{Op: "read", Path: p, Err: os.ErrNotExist}
	}

	res := make([]byte, len(rec.data))
	copy(res, rec.data)

	return res, nil
}

/*
Write writes the data of a record.
*/
func (mgs *MemoryGraphStorage) Write(p string, data []byte) error {
	if err := mgs.access("write", p); err != nil {
		return err
	}

	mgs.lock.Lock()
	defer mgs.lock.Unlock()

	return mgs.write(clean(p), data)
}

/*
Stat returns meta data of a record.
*/
func (mgs *MemoryGraphStorage) Stat(p string) (*RecordInfo, error) {
	if err := mgs.access("stat", p); err != nil {
		return nil, err
	}

	mgs.lock.RLock()
	defer mgs.lock.RUnlock()

	p = clean(p)

	if dir, ok := mgs.dirs[p]; ok {
		return &RecordInfo{dir.modTime, true, 0}, nil
	}

	rec, ok := mgs.records[p]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: p, Err: os.ErrNotExist}
	}

	return &RecordInfo{rec.modTime, false, int64(len(rec.data))}, nil
}

/*
List returns the names of all children of a directory record.
*/
func (mgs *MemoryGraphStorage) List(p string) ([]string, error) {
	if err := mgs.access("list", p); err != nil {
		return nil, err
	}

	mgs.lock.RLock()
	defer mgs.lock.RUnlock()

	p = clean(p)

	if _, ok := mgs.dirs[p]; !ok {
		if _, ok := mgs.records[p]; ok {
			return nil, &os.PathError{Op: "list", Path: p, Err: syscall.ENOTDIR}
		}
		return nil, &os.PathError{Op: "list", Path: p, Err: os.ErrNotExist}
	}

	res := make([]string, 0)

	addChildren := func(m map[string]*memRecord) {
		for k := range m {
			if path.Dir(k) == p && k != p {
				res = append(res, path.Base(k))
			}
		}
	}

	addChildren(mgs.dirs)
	addChildren(mgs.records)

	sort.Strings(res)

	return res, nil
}

/*
Delete removes a record.
*/
func (mgs *MemoryGraphStorage) Delete(p string) error {
	if err := mgs.access("delete", p); err != nil {
		return err
	}

	mgs.lock.Lock()
	defer mgs.lock.Unlock()

	p = clean(p)

	if _, ok := mgs.records[p]; !ok {
		return &os.PathError{Op: "delete", Path: p, Err: os.ErrNotExist}
	}

	delete(mgs.records, p)

	if dir, ok := mgs.dirs[path.Dir(p)]; ok {
		dir.modTime = mgs.NowFunc()
	}

	return nil
}

/*
GetAttr reads an out-of-band attribute of a record.
*/
func (mgs *MemoryGraphStorage) GetAttr(p string, name string) ([]byte, error) {
	if err := mgs.access("getattr", p); err != nil {
		return nil, err
	}

	mgs.lock.RLock()
	defer mgs.lock.RUnlock()

	rec := mgs.lookup(clean(p))
	if rec == nil {
		return nil, &os.PathError{Op: "getattr", Path: p, Err: os.ErrNotExist}
	}

	val, ok := rec.attrs[name]
	if !ok {
		return nil, &os.PathError{Op: "getattr " + name, Path: p, Err: os.ErrNotExist}
	}

	res := make([]byte, len(val))
	copy(res, val)

	return res, nil
}

/*
SetAttr writes an out-of-band attribute of a record.
*/
func (mgs *MemoryGraphStorage) SetAttr(p string, name string, value []byte) error {
	if err := mgs.access("setattr", p); err != nil {
		return err
	}

	mgs.lock.Lock()
	defer mgs.lock.Unlock()

	rec := mgs.lookup(clean(p))
	if rec == nil {
		return &os.PathError{Op: "setattr", Path: p, Err: os.ErrNotExist}
	}

	val := make([]byte, len(value))
	copy(val, value)

	rec.attrs[name] = val

	return nil
}

/*
Close closes the storage.
*/
func (mgs *MemoryGraphStorage) Close() error {
	return mgs.access("close", "")
}

/*
access calls the access hook if it is set.
*/
func (mgs *MemoryGraphStorage) access(op string, p string) error {
	if mgs.AccessHook != nil {
		return mgs.AccessHook(op, clean(p))
	}
	return nil
}

/*
lookup returns a record or directory with a given path.
*/
func (mgs *MemoryGraphStorage) lookup(p string) *memRecord {
	if rec, ok := mgs.records[p]; ok {
		return rec
	}
	return mgs.dirs[p]
}

/*
write stores a record and creates all its parent directories. Assumes the
write lock is held.
*/
func (mgs *MemoryGraphStorage) write(p string, data []byte) error {

	if _, ok := mgs.dirs[p]; ok {
		return &os.PathError{Op: "write", Path: p, Err: syscall.EISDIR}
	}

	if err := mgs.mkdirAll(path.Dir(p)); err != nil {
		return err
	}

	val := make([]byte, len(data))
	copy(val, data)

	now := mgs.NowFunc()

	if rec, ok := mgs.records[p]; ok {
		rec.data = val
		rec.modTime = now

	} else {
		mgs.records[p] = &memRecord{val, now, make(map[string][]byte)}

		if dir, ok := mgs.dirs[path.Dir(p)]; ok {
			dir.modTime = now
		}
	}

	return nil
}

/*
mkdirAll creates a directory and all its parents. Assumes the write lock is held.
*/
func (mgs *MemoryGraphStorage) mkdirAll(p string) error {

	for d := p; d != "." && d != "/" && d != ""; d = path.Dir(d) {
		if _, ok := mgs.records[d]; ok {
			return &os.PathError{Op: "mkdir", Path: d, Err: syscall.ENOTDIR}
		}
	}

	for d := p; d != "." && d != "/" && d != ""; d = path.Dir(d) {
		if _, ok := mgs.dirs[d]; ok {
			break
		}
		mgs.dirs[d] = &memRecord{nil, mgs.NowFunc(), make(map[string][]byte)}
	}

	return nil
}

/*
clean normalizes a record path.
*/
func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
