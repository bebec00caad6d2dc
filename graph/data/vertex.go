/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package data

import (
	"encoding/json"
)

/*
Attribute names of a vertex snapshot
*/
const (
	VertexDate    = "date"
	VertexData    = "data"
	VertexMode    = "mode"
	VertexProfile = "profile"
	VertexHandler = "handler"
	VertexEdge    = "edge"
)

/*
Vertex is a snapshot of all attributes of a vertex. Date and Data are
mandatory, all other attributes are nil if they could not be read.
*/
type Vertex struct {
	Date    int64
	Data    interface{}
	Mode    *ModeFlags
	Profile interface{}
	Handler map[string]interface{}
	Edge    []string
}

/*
MarshalJSON encodes the snapshot. Absent optional attributes are omitted.
*/
func (v *Vertex) MarshalJSON() ([]byte, error) {
	res := map[string]interface{}{
		VertexDate: v.Date,
		VertexData: v.Data,
	}

	if v.Mode != nil {
		res[VertexMode] = v.Mode
	}
	if v.Profile != nil {
		res[VertexProfile] = v.Profile
	}
	if v.Handler != nil {
		res[VertexHandler] = v.Handler
	}
	if v.Edge != nil {
		res[VertexEdge] = v.Edge
	}

	return json.Marshal(res)
}

/*
DecodeText returns a stored text as JSON value if it is valid JSON. Other
texts are returned as plain string.
*/
func DecodeText(text []byte) interface{} {
	if json.Valid(text) {
		return json.RawMessage(text)
	}
	return string(text)
}
