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
Package util contains utility classes for the vertex graph.

GraphError

Models a graph related error. Low-level errors should be wrapped in a GraphError
before they are returned to a client.

Paths

Maps (user, property kind, vertex, sub key) tuples to locations in the
record store. A user namespace is laid out as:

	<uid>                       user root
	<uid>/<vid>                 vertex data record
	<uid>/vertex/<vid>          vertex namespace entry
	<uid>/edge/<vid>/<dst>      edge marker
	<uid>/attr/<vid>/<attr>     vertex attribute (mode, profile, handler)
*/
package util

import (
	"errors"
	"fmt"
)

/*
GraphError is a graph related error
*/
type GraphError struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (ge *GraphError) Error() string {
	if ge.Detail != "" {
		return fmt.Sprintf("GraphError: %v (%v)", ge.Type, ge.Detail)
	}

	return fmt.Sprintf("GraphError: %v", ge.Type)
}

/*
Is returns true if the given target is the type of this error.
*/
func (ge *GraphError) Is(target error) bool {
	return ge.Type == target
}

/*
Graph related error types
*/
var (
	ErrInvalidIdentifier    = errors.New("Invalid identifier")
	ErrAuthFailure          = errors.New("Authentication failure")
	ErrNotFound             = errors.New("Not found")
	ErrStore                = errors.New("Store error")
	ErrInvalidRule          = errors.New("Invalid rule")
	ErrInvalidData          = errors.New("Invalid data")
	ErrAlreadyAuthenticated = errors.New("Already authenticated")
	ErrProtocolViolation    = errors.New("Protocol violation")
)

/*
NewGraphError creates a new GraphError of a given type.
*/
func NewGraphError(errType error, detail string) error {
	return &GraphError{errType, detail}
}
