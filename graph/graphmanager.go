/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"sort"
	"sync"

	"devt.de/krotik/vdevd/graph/graphstorage"
	"devt.de/krotik/vdevd/graph/util"
)

/*
Manager data structure
*/
type Manager struct {
	gs          graphstorage.Storage   // Record store of this graph manager
	vertexLocks map[string]*sync.Mutex // Locks for read-modify-write operations on vertices
	mutex       *sync.Mutex            // Mutex to protect the lock map
}

/*
NewGraphManager returns a new GraphManager instance.
*/
func NewGraphManager(gs graphstorage.Storage) *Manager {
	return &Manager{gs, make(map[string]*sync.Mutex), &sync.Mutex{}}
}

/*
Name returns the name of the underlying storage.
*/
func (gm *Manager) Name() string {
	return gm.gs.Name()
}

/*
ListVertices returns the identifiers of all vertices of a user. Entries in the
vertex namespace which are not valid identifiers are ignored.
*/
func (gm *Manager) ListVertices(uid string) ([]string, error) {

	if err := util.CheckIdentifier(uid); err != nil {
		return nil, err
	}

	loc := util.VertexPath(uid, "")

	names, err := gm.gs.List(loc)
	if err != nil {
		return nil, storeError(err, loc)
	}

	res := make([]string, 0, len(names))
	for _, name := range names {
		if util.IsValidIdentifier(name) {
			res = append(res, name)
		}
	}

	sort.Strings(res)

	return res, nil
}

/*
lockVertex locks a given vertex for a read-modify-write operation. Returns
the unlock function.
*/
func (gm *Manager) lockVertex(uid string, vid string) func() {
	key := uid + "/" + vid

	gm.mutex.Lock()
	l, ok := gm.vertexLocks[key]
	if !ok {
		l = &sync.Mutex{}
		gm.vertexLocks[key] = l
	}
	gm.mutex.Unlock()

	l.Lock()

	return l.Unlock
}

/*
checkIdentifiers checks a list of identifiers.
*/
func checkIdentifiers(ids ...string) error {
	for _, id := range ids {
		if err := util.CheckIdentifier(id); err != nil {
			return err
		}
	}
	return nil
}

/*
storeError wraps a low-level storage error. Missing records become
ErrNotFound errors, everything else an ErrStore error.
*/
func storeError(err error, loc string) error {
	if graphstorage.IsNotFound(err) {
		return &util.GraphError{Type: util.ErrNotFound, Detail: loc}
	}
	return &util.GraphError{Type: util.ErrStore, Detail: err.Error()}
}
