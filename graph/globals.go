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
Package graph contains the main API to the vertex graph.

Manager API

The main API is provided by a Manager object which can be created with the
NewGraphManager() constructor function. The manager provides typed access to
the attributes of the vertices of a user: data, date, mode, profile, handler,
edges and the out-of-band state flags.

Vertices

Each user owns a namespace of vertices. A vertex has a data record whose
modification time is the vertex date. Further attributes are stored as
records in the attribute tree of the user. Edges are zero-byte marker records
in the edge tree of the user.

Rules

A rule is compiled into a handler script which is stored as the handler
attribute of a vertex. Compiling a rule also adds an edge from the vertex to
the destination of the rule (self loops are never added). The handler is
executed by an external rule engine.

Aggregation

Reading a whole vertex or the whole vertex list fetches all parts
concurrently. Failing optional parts are omitted, a failing data record
fails the vertex.
*/
package graph

/*
Names of vertex attribute records
*/
const (
	AttrMode    = "mode"
	AttrProfile = "profile"
	AttrHandler = "handler"
)

/*
Names of out-of-band attributes on the vertex data record
*/
const (
	StateEnable  = "enable"
	StateDisable = "disable"
	StateToday   = "scan:{'today': {'limit': 24}}"
)
