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
Package session contains the session state of a client connection and the
dispatcher which binds request messages to vertex graph operations.

Protocol

Clients send JSON requests of the form:

	{id: number|string, action: string, vertex?: 32-hex string, data?: any}

Every handled request gets a response with the same id:

	{id: same value, err: boolean, data?: any}

Malformed messages, unknown actions, messages with a missing or invalid
vertex and all messages other than auth on an unauthenticated session are
dropped without response. Errors never carry details.

Pushes

The first successful list call of a session subscribes it to changes of the
vertex graph of its user. Changes are pushed with the id of that list call
and the full vertex list as data.
*/
package session

import (
	"encoding/hex"
	"sync"

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/vdevd/graph/util"
)

/*
Sender models the outgoing side of a client connection.
*/
type Sender interface {

	/*
		WriteResponse writes a response to the client.
	*/
	WriteResponse(resp *Response) error
}

/*
Session is the state of a single client connection.
*/
type Session struct {
	id         string      // Random session id
	uid        string      // Id of the authenticated user
	subscribed bool        // Flag if this session is subscribed to changes
	closed     bool        // Flag if this session was closed
	conn       Sender      // Connection of this session
	mutex      *sync.Mutex // Mutex for state operations
}

/*
NewSession creates a new session for a given connection.
*/
func NewSession(conn Sender) *Session {
	uuid := cryptutil.GenerateUUID()
	return &Session{hex.EncodeToString(uuid[:]), "", false, false, conn, &sync.Mutex{}}
}

/*
ID returns the id of this session.
*/
func (s *Session) ID() string {
	return s.id
}

/*
UID returns the id of the authenticated user or the empty string.
*/
func (s *Session) UID() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.uid
}

/*
IsAuthenticated checks if a user was bound to this session.
*/
func (s *Session) IsAuthenticated() bool {
	return s.UID() != ""
}

/*
BindUser binds a user to this session. A user can only be bound once.
*/
func (s *Session) BindUser(uid string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.uid != "" {
		return &util.GraphError{Type: util.ErrAlreadyAuthenticated, Detail: s.uid}
	}

	if err := util.CheckIdentifier(uid); err != nil {
		return err
	}

	s.uid = uid

	return nil
}

/*
IsSubscribed checks if this session is subscribed to changes.
*/
func (s *Session) IsSubscribed() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.subscribed
}

/*
setSubscribed sets the subscription flag. Returns the previous value.
*/
func (s *Session) setSubscribed(subscribed bool) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	old := s.subscribed
	s.subscribed = subscribed

	return old
}

/*
IsClosed checks if this session was closed. A closed session handles no
further messages.
*/
func (s *Session) IsClosed() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.closed
}

/*
setClosed marks this session as closed.
*/
func (s *Session) setClosed() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.closed = true
}

/*
Deliver sends a response or push to the client.
*/
func (s *Session) Deliver(resp *Response) error {
	return s.conn.WriteResponse(resp)
}
