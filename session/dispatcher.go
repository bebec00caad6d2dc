/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package session

import (
	"errors"
	"sort"

	"devt.de/krotik/common/logutil"
	"devt.de/krotik/vdevd/api/ac"
	"devt.de/krotik/vdevd/graph"
	"devt.de/krotik/vdevd/graph/data"
	"devt.de/krotik/vdevd/graph/util"
	"devt.de/krotik/vdevd/watch"
)

var logger = logutil.GetLogger("vdevd.session")

/*
Known actions
*/
const (
	ActionAuth       = "auth"
	ActionList       = "list"
	ActionGetDate    = "getDate"
	ActionGetData    = "getData"
	ActionGetMode    = "getMode"
	ActionGetProfile = "getProfile"
	ActionGetEdge    = "getEdge"
	ActionGetVertex  = "getVertex"
	ActionGetToday   = "getToday"
	ActionSetSync    = "setSync"
	ActionSetRule    = "setRule"
	ActionAddEdge    = "addEdge"
	ActionRemoveEdge = "removeEdge"
	ActionEnable     = "enable"
	ActionDisable    = "disable"
)

/*
actionHandler handles a single action. A returned ErrProtocolViolation error
drops the request, all other errors produce an error response.
*/
type actionHandler func(d *Dispatcher, s *Session, req *Request) (interface{}, error)

/*
action declares the arity of an action and its handler.
*/
type action struct {
	vertex  bool          // Flag if the action requires a vertex
	data    bool          // Flag if the action requires a data payload
	handler actionHandler // Handler function
}

/*
actions is the table of all known actions.
*/
var actions = map[string]*action{
	ActionAuth:       {false, true, handleAuth},
	ActionList:       {false, false, handleList},
	ActionGetDate:    {true, false, handleGetDate},
	ActionGetData:    {true, false, handleGetData},
	ActionGetMode:    {true, false, handleGetMode},
	ActionGetProfile: {true, false, handleGetProfile},
	ActionGetEdge:    {true, false, handleGetEdge},
	ActionGetVertex:  {true, false, handleGetVertex},
	ActionGetToday:   {true, false, handleGetToday},
	ActionSetSync:    {true, true, handleSetSync},
	ActionSetRule:    {true, true, handleSetRule},
	ActionAddEdge:    {true, true, handleAddEdge},
	ActionRemoveEdge: {true, true, handleRemoveEdge},
	ActionEnable:     {true, false, handleEnable},
	ActionDisable:    {true, false, handleDisable},
}

/*
Actions returns the names of all known actions.
*/
func Actions() []string {
	var res []string

	for name := range actions {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}

/*
Dispatcher binds request messages to vertex graph operations.
*/
type Dispatcher struct {
	gm     *graph.Manager    // Vertex graph
	engine *watch.Engine     // Watch engine for subscriptions
	auth   *ac.Authenticator // Authenticator for auth requests
}

/*
NewDispatcher creates a new Dispatcher.
*/
func NewDispatcher(gm *graph.Manager, engine *watch.Engine, auth *ac.Authenticator) *Dispatcher {
	return &Dispatcher{gm, engine, auth}
}

/*
Dispatch handles a request message of a session and sends the response.
*/
func (d *Dispatcher) Dispatch(s *Session, msg []byte) error {
	if resp := d.HandleMessage(s, msg); resp != nil {
		return s.Deliver(resp)
	}
	return nil
}

/*
HandleMessage handles a request message of a session. Returns nil if the
message was dropped.
*/
func (d *Dispatcher) HandleMessage(s *Session, msg []byte) *Response {

	if s.IsClosed() {
		logger.Debug("Session ", s.ID(), " dropped message after close")
		return nil
	}

	req, err := ParseRequest(msg)
	if err != nil {
		logger.Debug("Session ", s.ID(), " dropped message: ", err)
		return nil
	}

	act, ok := actions[req.Action]
	if !ok {
		logger.Debug("Session ", s.ID(), " dropped unknown action: ", req.Action)
		return nil
	}

	if req.Action != ActionAuth && !s.IsAuthenticated() {
		logger.Debug("Session ", s.ID(), " dropped unauthenticated action: ", req.Action)
		return nil
	}

	if act.vertex && !util.IsValidIdentifier(req.Vertex) {
		logger.Debug("Session ", s.ID(), " dropped action ", req.Action,
			" with invalid vertex: ", req.Vertex)
		return nil
	}

	res, err := act.handler(d, s, req)

	if err != nil {
		if errors.Is(err, util.ErrProtocolViolation) {
			logger.Debug("Session ", s.ID(), " dropped action ", req.Action, ": ", err)
			return nil
		}

		logger.Info("Session ", s.ID(), " action ", req.Action, " failed: ", err)

		return &Response{ID: req.ID, Err: true}
	}

	return &Response{ID: req.ID, Err: false, Data: res}
}

/*
Close deregisters a session from the watch engine and marks it as closed.
Closing a session which was never subscribed only marks it as closed.
*/
func (d *Dispatcher) Close(s *Session) {
	s.setClosed()
	d.engine.Unsubscribe(s.ID())
	s.setSubscribed(false)
}

// Action handlers
// ===============

func handleAuth(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	var creds map[string]interface{}

	if err := req.DecodeData(&creds); err != nil {
		return nil, err
	}

	user, ok1 := creds["user"].(string)
	password, ok2 := creds["password"].(string)

	if !ok1 || !ok2 || user == "" || password == "" {
		return nil, &util.GraphError{Type: util.ErrProtocolViolation, Detail: "Invalid credentials"}
	}

	if s.IsAuthenticated() {
		return nil, &util.GraphError{Type: util.ErrAlreadyAuthenticated, Detail: user}
	}

	uid, err := d.auth.Authenticate(user, password)
	if err != nil {
		return nil, err
	}

	if err := s.BindUser(uid); err != nil {
		return nil, err
	}

	logger.Info("Session ", s.ID(), " authenticated as user ", user)

	return nil, nil
}

func handleList(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	uid := s.UID()

	list, err := d.gm.List(uid)
	if err != nil {
		return nil, err
	}

	if !s.IsSubscribed() {
		dates := make(map[string]int64, len(list))
		for vid, v := range list {
			dates[vid] = v.Date
		}

		listID := req.ID

		push := func(list map[string]*data.Vertex, err error) {
			resp := &Response{ID: listID, Err: err != nil}
			if err == nil {
				resp.Data = list
			}

			if err := s.Deliver(resp); err != nil {
				logger.Debug("Could not push to session ", s.ID(), ": ", err)
			}
		}

		if d.engine.Subscribe(s.ID(), uid, dates, push) {
			s.setSubscribed(true)
		}
	}

	return list, nil
}

func handleGetDate(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return d.gm.Date(s.UID(), req.Vertex)
}

func handleGetData(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return d.gm.Data(s.UID(), req.Vertex)
}

func handleGetMode(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return d.gm.ModeFlags(s.UID(), req.Vertex)
}

func handleGetProfile(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return d.gm.Profile(s.UID(), req.Vertex)
}

func handleGetEdge(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return d.gm.Edges(s.UID(), req.Vertex)
}

func handleGetVertex(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return d.gm.Vertex(s.UID(), req.Vertex)
}

func handleGetToday(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return d.gm.Today(s.UID(), req.Vertex)
}

func handleSetSync(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	var enabled bool

	if err := req.DecodeData(&enabled); err != nil {
		return nil, err
	}

	return nil, d.gm.SetSync(s.UID(), req.Vertex, enabled)
}

func handleSetRule(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	var rule interface{}

	if err := req.DecodeData(&rule); err != nil {
		return nil, err
	}

	return nil, d.gm.SetRule(s.UID(), req.Vertex, rule)
}

func handleAddEdge(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	var dst string

	if err := req.DecodeData(&dst); err != nil {
		return nil, err
	}

	return nil, d.gm.AddEdge(s.UID(), req.Vertex, dst)
}

func handleRemoveEdge(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	var dst string

	if err := req.DecodeData(&dst); err != nil {
		return nil, err
	}

	return nil, d.gm.RemoveEdge(s.UID(), req.Vertex, dst)
}

func handleEnable(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return nil, d.gm.SetEnabled(s.UID(), req.Vertex, true)
}

func handleDisable(d *Dispatcher, s *Session, req *Request) (interface{}, error) {
	return nil, d.gm.SetEnabled(s.UID(), req.Vertex, false)
}
