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
	"bytes"
	"encoding/json"

	"devt.de/krotik/vdevd/graph/util"
)

/*
Request is a client request message.
*/
type Request struct {
	ID     json.RawMessage `json:"id"`     // Correlation token (number or string)
	Action string          `json:"action"` // Requested action
	Vertex string          `json:"vertex"` // Vertex identifier of vertex actions
	Data   json.RawMessage `json:"data"`   // Action payload
}

/*
Response is a response or push message.
*/
type Response struct {
	ID   json.RawMessage `json:"id"`             // Correlation token of the request
	Err  bool            `json:"err"`            // Flag if the request failed
	Data interface{}     `json:"data,omitempty"` // Result of the request
}

/*
ParseRequest parses a request message. The message must be a JSON object
with a number or string id and a non-empty action.
*/
func ParseRequest(msg []byte) (*Request, error) {
	req := &Request{}

	if err := json.Unmarshal(msg, req); err != nil {
		return nil, &util.GraphError{Type: util.ErrProtocolViolation, Detail: err.Error()}
	}

	if !isValidID(req.ID) {
		return nil, &util.GraphError{Type: util.ErrProtocolViolation, Detail: "Invalid message id"}
	}

	if req.Action == "" {
		return nil, &util.GraphError{Type: util.ErrProtocolViolation, Detail: "Missing action"}
	}

	return req, nil
}

/*
DecodeData decodes the payload of a request into a given value.
*/
func (r *Request) DecodeData(v interface{}) error {

	if d := bytes.TrimSpace(r.Data); len(d) == 0 || bytes.Equal(d, []byte("null")) {
		return &util.GraphError{Type: util.ErrProtocolViolation, Detail: "Missing data"}
	}

	if err := json.Unmarshal(r.Data, v); err != nil {
		return &util.GraphError{Type: util.ErrProtocolViolation, Detail: err.Error()}
	}

	return nil
}

/*
isValidID checks if a message id is a JSON number or string.
*/
func isValidID(id json.RawMessage) bool {
	id = bytes.TrimSpace(id)

	if len(id) == 0 {
		return false
	}

	switch c := id[0]; {
	case c == '"':
		return true
	case c == '-' || (c >= '0' && c <= '9'):
		return true
	}

	return false
}
