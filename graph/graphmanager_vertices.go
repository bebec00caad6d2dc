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
	"sync"

	"devt.de/krotik/vdevd/graph/data"
	"devt.de/krotik/vdevd/graph/graphstorage"
	"devt.de/krotik/vdevd/graph/util"
)

/*
Date returns the last modification time of the data of a vertex in
milliseconds since the epoch.
*/
func (gm *Manager) Date(uid string, vid string) (int64, error) {

	if err := checkIdentifiers(uid, vid); err != nil {
		return 0, err
	}

	loc := util.DataPath(uid, vid)

	info, err := gm.gs.Stat(loc)
	if err != nil {
		return 0, storeError(err, loc)
	}

	return info.ModTime.UnixNano() / 1e6, nil
}

/*
Data returns the data of a vertex. The data is returned as JSON value if it
is valid JSON otherwise as string.
*/
func (gm *Manager) Data(uid string, vid string) (interface{}, error) {

	if err := checkIdentifiers(uid, vid); err != nil {
		return nil, err
	}

	loc := util.DataPath(uid, vid)

	text, err := gm.gs.Read(loc)
	if err != nil {
		return nil, storeError(err, loc)
	}

	return data.DecodeText(text), nil
}

/*
SetData writes the data of a vertex and registers the vertex in the vertex
namespace of the user.
*/
func (gm *Manager) SetData(uid string, vid string, text []byte) error {

	if err := checkIdentifiers(uid, vid); err != nil {
		return err
	}

	loc := util.DataPath(uid, vid)

	if err := gm.gs.Write(loc, text); err != nil {
		return storeError(err, loc)
	}

	loc = util.VertexPath(uid, vid)

	if err := gm.gs.Create(loc); err != nil && !graphstorage.IsExist(err) {
		return storeError(err, loc)
	}

	return nil
}

/*
Mode returns the raw mode of a vertex.
*/
func (gm *Manager) Mode(uid string, vid string) (data.Mode, error) {

	if err := checkIdentifiers(uid, vid); err != nil {
		return 0, err
	}

	loc := util.AttrPath(uid, vid, AttrMode)

	text, err := gm.gs.Read(loc)
	if err != nil {
		return 0, storeError(err, loc)
	}

	mode, err := data.ParseMode(string(text))
	if err != nil {
		return 0, &util.GraphError{Type: util.ErrInvalidData, Detail: loc}
	}

	return mode, nil
}

/*
ModeFlags returns the decoded mode flags of a vertex.
*/
func (gm *Manager) ModeFlags(uid string, vid string) (*data.ModeFlags, error) {
	mode, err := gm.Mode(uid, vid)
	if err != nil {
		return nil, err
	}
	flags := mode.Flags()
	return &flags, nil
}

/*
SetMode writes the raw mode of a vertex.
*/
func (gm *Manager) SetMode(uid string, vid string, mode data.Mode) error {

	if err := checkIdentifiers(uid, vid); err != nil {
		return err
	}

	return gm.writeMode(uid, vid, mode)
}

/*
SetSync sets the sync flag of a vertex. All other bits of the mode are
preserved. The operation fails with the error of the mode read if the
current mode cannot be read. Concurrent calls for the same vertex are
serialized.
*/
func (gm *Manager) SetSync(uid string, vid string, enabled bool) error {

	if err := checkIdentifiers(uid, vid); err != nil {
		return err
	}

	unlock := gm.lockVertex(uid, vid)
	defer unlock()

	mode, err := gm.Mode(uid, vid)
	if err != nil {
		return err
	}

	return gm.writeMode(uid, vid, mode.WithSync(enabled))
}

/*
writeMode writes a mode record.
*/
func (gm *Manager) writeMode(uid string, vid string, mode data.Mode) error {
	loc := util.AttrPath(uid, vid, AttrMode)

	if err := gm.gs.Write(loc, []byte(mode.String())); err != nil {
		return storeError(err, loc)
	}

	return nil
}

/*
Profile returns the profile of a vertex. The profile is returned as JSON
value if it is valid JSON otherwise as string.
*/
func (gm *Manager) Profile(uid string, vid string) (interface{}, error) {

	if err := checkIdentifiers(uid, vid); err != nil {
		return nil, err
	}

	loc := util.AttrPath(uid, vid, AttrProfile)

	text, err := gm.gs.Read(loc)
	if err != nil {
		return nil, storeError(err, loc)
	}

	return data.DecodeText(text), nil
}

/*
Handler returns the rule which was used to generate the handler of a vertex.
Returns an empty object if the vertex has no handler.
*/
func (gm *Manager) Handler(uid string, vid string) (map[string]interface{}, error) {

	if err := checkIdentifiers(uid, vid); err != nil {
		return nil, err
	}

	loc := util.AttrPath(uid, vid, AttrHandler)

	text, err := gm.gs.Read(loc)
	if err != nil {
		if graphstorage.IsNotFound(err) {
			return map[string]interface{}{}, nil
		}
		return nil, storeError(err, loc)
	}

	return data.ParseHandler(string(text))
}

/*
Today returns the aggregate of the vertex data over the current day. The
aggregate is computed by the record store.
*/
func (gm *Manager) Today(uid string, vid string) (interface{}, error) {

	if err := checkIdentifiers(uid, vid); err != nil {
		return nil, err
	}

	loc := util.DataPath(uid, vid)

	text, err := gm.gs.GetAttr(loc, StateToday)
	if err != nil {
		return nil, storeError(err, loc)
	}

	return data.DecodeText(text), nil
}

/*
SetEnabled writes the enabled state of a vertex. The state is an
out-of-band attribute of the data record which is interpreted by the
record store.
*/
func (gm *Manager) SetEnabled(uid string, vid string, enabled bool) error {

	if err := checkIdentifiers(uid, vid); err != nil {
		return err
	}

	loc := util.DataPath(uid, vid)

	name := StateDisable
	if enabled {
		name = StateEnable
	}

	if err := gm.gs.SetAttr(loc, name, []byte{}); err != nil {
		return storeError(err, loc)
	}

	return nil
}

/*
Vertex returns a snapshot of all attributes of a vertex. All attributes are
fetched concurrently. Failing optional attributes are omitted from the
snapshot, a failing data record fails the whole call.
*/
func (gm *Manager) Vertex(uid string, vid string) (*data.Vertex, error) {
	var wg sync.WaitGroup
	var dateErr, dataErr error

	if err := checkIdentifiers(uid, vid); err != nil {
		return nil, err
	}

	res := &data.Vertex{}

	wg.Add(6)

	go func() {
		defer wg.Done()
		res.Date, dateErr = gm.Date(uid, vid)
	}()

	go func() {
		defer wg.Done()
		res.Data, dataErr = gm.Data(uid, vid)
	}()

	go func() {
		defer wg.Done()
		if mode, err := gm.ModeFlags(uid, vid); err == nil {
			res.Mode = mode
		}
	}()

	go func() {
		defer wg.Done()
		if profile, err := gm.Profile(uid, vid); err == nil {
			res.Profile = profile
		}
	}()

	go func() {
		defer wg.Done()
		if handler, err := gm.Handler(uid, vid); err == nil {
			res.Handler = handler
		}
	}()

	go func() {
		defer wg.Done()
		if edges, err := gm.Edges(uid, vid); err == nil {
			res.Edge = edges
		}
	}()

	wg.Wait()

	if dataErr != nil {
		return nil, dataErr
	} else if dateErr != nil {
		return nil, dateErr
	}

	return res, nil
}

/*
List returns snapshots of all vertices of a user. Vertices whose snapshot
cannot be read are omitted.
*/
func (gm *Manager) List(uid string) (map[string]*data.Vertex, error) {
	var wg sync.WaitGroup
	var mutex sync.Mutex

	vids, err := gm.ListVertices(uid)
	if err != nil {
		return nil, err
	}

	res := make(map[string]*data.Vertex, len(vids))

	for _, vid := range vids {
		wg.Add(1)

		go func(vid string) {
			defer wg.Done()

			v, err := gm.Vertex(uid, vid)
			if err != nil {
				return
			}

			mutex.Lock()
			res[vid] = v
			mutex.Unlock()
		}(vid)
	}

	wg.Wait()

	return res, nil
}
