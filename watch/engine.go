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
Package watch contains the watch engine which notifies subscribed sessions
about changes in the vertex graph of their user.

Watch entries

The engine holds one watch entry per user with at least one subscribed
session. An entry holds the last observed modification date of every vertex
of the user and the push functions of all subscribed sessions. An entry is
created with the first subscription of a user and removed once its last
session unsubscribes.

Poll cycle

Every call to Poll starts a cycle for each watch entry. A cycle fetches the
dates of all vertices of the user concurrently (a failing fetch counts as
date 0), compares them to the stored dates and replaces the stored dates.
If the vertex set or any date changed the full vertex list is fetched and
pushed to all subscribed sessions of the user. Cycles run in a thread pool.
A user has at most one cycle in flight; a Poll which finds a running cycle
skips the user.
*/
package watch

import (
	"sort"
	"sync"

	"devt.de/krotik/common/logutil"
	"devt.de/krotik/common/pools"
	"devt.de/krotik/vdevd/graph/data"
)

var logger = logutil.GetLogger("vdevd.watch")

/*
Source is the vertex graph which is observed by the engine.
*/
type Source interface {

	/*
		ListVertices returns the identifiers of all vertices of a user.
	*/
	ListVertices(uid string) ([]string, error)

	/*
		Date returns the last modification date of a vertex.
	*/
	Date(uid string, vid string) (int64, error)

	/*
		List returns snapshots of all vertices of a user.
	*/
	List(uid string) (map[string]*data.Vertex, error)
}

/*
PushFunc is called with the vertex list of a user after a change was detected
or with the error of the failed list fetch.
*/
type PushFunc func(list map[string]*data.Vertex, err error)

/*
Engine data structure
*/
type Engine struct {
	source   Source            // Observed vertex graph
	pool     *pools.ThreadPool // Thread pool which runs poll cycles
	workers  int               // Number of workers of the thread pool
	entries  map[string]*entry // Map of user id to watch entry
	sessions map[string]string // Map of session id to user id
	mutex    *sync.Mutex       // Mutex for the entry and session maps
}

/*
entry is the watch entry of a single user.
*/
type entry struct {
	uid         string              // User id
	snapshot    map[string]int64    // Last observed vertex dates
	subscribers map[string]PushFunc // Push functions of subscribed sessions
	polling     bool                // Flag if a poll cycle is in flight
	mutex       *sync.Mutex         // Mutex for all entry operations
}

/*
NewEngine creates a new watch engine which runs poll cycles on a given number
of workers.
*/
func NewEngine(source Source, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}

	return &Engine{source, pools.NewThreadPool(), workers,
		make(map[string]*entry), make(map[string]string), &sync.Mutex{}}
}

/*
Start starts the workers of the engine.
*/
func (e *Engine) Start() {
	e.pool.SetWorkerCount(e.workers, false)
}

/*
Stop finishes all pending cycles and stops the workers of the engine.
*/
func (e *Engine) Stop() {
	e.pool.JoinAll()
}

/*
WaitAll waits until all pending cycles have finished.
*/
func (e *Engine) WaitAll() {
	e.pool.WaitAll()
}

/*
Subscribe subscribes a session of a user. The watch entry of the user is
created with the given dates if it does not exist. Returns false if the
session is already subscribed.
*/
func (e *Engine) Subscribe(sessionID string, uid string, dates map[string]int64, push PushFunc) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if _, ok := e.sessions[sessionID]; ok {
		return false
	}

	ent, ok := e.entries[uid]
	if !ok {
		snapshot := make(map[string]int64, len(dates))
		for k, v := range dates {
			snapshot[k] = v
		}

		ent = &entry{uid, snapshot, make(map[string]PushFunc), false, &sync.Mutex{}}
		e.entries[uid] = ent
	}

	ent.mutex.Lock()
	ent.subscribers[sessionID] = push
	ent.mutex.Unlock()

	e.sessions[sessionID] = uid

	logger.Debug("Session ", sessionID, " subscribed to user ", uid)

	return true
}

/*
Unsubscribe removes a session. The watch entry of the user is removed once
it has no more sessions. Unsubscribing an unknown session is a no-op.
*/
func (e *Engine) Unsubscribe(sessionID string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	uid, ok := e.sessions[sessionID]
	if !ok {
		return
	}

	delete(e.sessions, sessionID)

	if ent, ok := e.entries[uid]; ok {

		ent.mutex.Lock()
		delete(ent.subscribers, sessionID)
		empty := len(ent.subscribers) == 0
		ent.mutex.Unlock()

		if empty {
			delete(e.entries, uid)
		}
	}

	logger.Debug("Session ", sessionID, " unsubscribed from user ", uid)
}

/*
IsSubscribed checks if a session is subscribed.
*/
func (e *Engine) IsSubscribed(sessionID string) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	_, ok := e.sessions[sessionID]

	return ok
}

/*
Users returns the sorted ids of all users with a watch entry.
*/
func (e *Engine) Users() []string {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	res := make([]string, 0, len(e.entries))
	for uid := range e.entries {
		res = append(res, uid)
	}

	sort.Strings(res)

	return res
}

/*
Poll starts a poll cycle for every user which has no cycle in flight.
*/
func (e *Engine) Poll() {
	e.mutex.Lock()

	ents := make([]*entry, 0, len(e.entries))
	for _, ent := range e.entries {
		ents = append(ents, ent)
	}

	e.mutex.Unlock()

	for _, ent := range ents {

		ent.mutex.Lock()
		busy := ent.polling
		ent.polling = true
		ent.mutex.Unlock()

		if busy {
			logger.Debug("Skipping poll for user ", ent.uid, ": previous cycle still running")
			continue
		}

		e.pool.AddTask(&pollTask{e, ent})
	}
}

/*
pollTask is a poll cycle for a single user.
*/
type pollTask struct {
	engine *Engine
	ent    *entry
}

/*
Run runs the poll cycle.
*/
func (t *pollTask) Run(tid uint64) error {
	defer func() {
		t.ent.mutex.Lock()
		t.ent.polling = false
		t.ent.mutex.Unlock()
	}()

	uid := t.ent.uid

	dates, err := t.engine.fetchDates(uid)
	if err != nil {
		return err
	}

	t.ent.mutex.Lock()

	changed := hasChanged(t.ent.snapshot, dates)
	t.ent.snapshot = dates

	subscribers := make([]PushFunc, 0, len(t.ent.subscribers))
	for _, push := range t.ent.subscribers {
		subscribers = append(subscribers, push)
	}

	t.ent.mutex.Unlock()

	if !changed || len(subscribers) == 0 {
		return nil
	}

	logger.Debug("Vertices of user ", uid, " changed - notifying ",
		len(subscribers), " sessions")

	list, err := t.engine.source.List(uid)
	if err != nil {
		logger.Warning("Could not list vertices of user ", uid, ": ", err)
	}

	for _, push := range subscribers {
		push(list, err)
	}

	return nil
}

/*
HandleError handles an error which occurred during a poll cycle.
*/
func (t *pollTask) HandleError(err error) {
	logger.Warning("Poll cycle for user ", t.ent.uid, " failed: ", err)
}

/*
fetchDates fetches the dates of all vertices of a user concurrently. A
failing date fetch counts as date 0.
*/
func (e *Engine) fetchDates(uid string) (map[string]int64, error) {
	var wg sync.WaitGroup
	var mutex sync.Mutex

	vids, err := e.source.ListVertices(uid)
	if err != nil {
		return nil, err
	}

	res := make(map[string]int64, len(vids))

	for _, vid := range vids {
		wg.Add(1)

		go func(vid string) {
			defer wg.Done()

			date, err := e.source.Date(uid, vid)
			if err != nil {
				logger.Debug("Could not read date of vertex ", vid, " of user ", uid, ": ", err)
				date = 0
			}

			mutex.Lock()
			res[vid] = date
			mutex.Unlock()
		}(vid)
	}

	wg.Wait()

	return res, nil
}

/*
hasChanged checks if two date snapshots differ in their key set or in any
value.
*/
func hasChanged(old map[string]int64, new map[string]int64) bool {

	if len(old) != len(new) {
		return true
	}

	for k, v := range new {
		if ov, ok := old[k]; !ok || ov != v {
			return true
		}
	}

	return false
}
