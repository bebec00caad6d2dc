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

	"devt.de/krotik/vdevd/graph/graphstorage"
	"devt.de/krotik/vdevd/graph/util"
)

/*
Edges returns the destinations of all edges of a vertex. A vertex without
edge list has no edges.
*/
func (gm *Manager) Edges(uid string, vid string) ([]string, error) {

	if err := checkIdentifiers(uid, vid); err != nil {
		return nil, err
	}

	loc := util.EdgePath(uid, vid, "")

	names, err := gm.gs.List(loc)
	if err != nil {
		if graphstorage.IsNotFound(err) {
			return []string{}, nil
		}
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
AddEdge adds an edge from a vertex to a destination vertex. Adding an
existing edge is not an error.
*/
func (gm *Manager) AddEdge(uid string, vid string, dst string) error {

	if err := checkIdentifiers(uid, vid, dst); err != nil {
		return err
	}

	loc := util.EdgePath(uid, vid, dst)

	if err := gm.gs.Create(loc); err != nil && !graphstorage.IsExist(err) {
		return storeError(err, loc)
	}

	return nil
}

/*
RemoveEdge removes an edge from a vertex to a destination vertex. Returns an
ErrNotFound error if the edge does not exist.
*/
func (gm *Manager) RemoveEdge(uid string, vid string, dst string) error {

	if err := checkIdentifiers(uid, vid, dst); err != nil {
		return err
	}

	loc := util.EdgePath(uid, vid, dst)

	if err := gm.gs.Delete(loc); err != nil {
		return storeError(err, loc)
	}

	return nil
}
