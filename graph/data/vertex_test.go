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
	"testing"
)

func TestVertexJSON(t *testing.T) {

	v := &Vertex{
		Date: 1000,
		Data: DecodeText([]byte(`{"temp": 21}`)),
	}

	out, err := json.Marshal(v)
	if err != nil || string(out) != `{"data":{"temp":21},"date":1000}` {
		t.Error("Unexpected result:", string(out), err)
		return
	}

	flags := Mode(64).Flags()

	v.Data = DecodeText([]byte("not json"))
	v.Mode = &flags
	v.Profile = DecodeText([]byte(`{"type":"sensor"}`))
	v.Handler = map[string]interface{}{}
	v.Edge = []string{}

	out, err = json.Marshal(v)
	if err != nil || string(out) != `{"data":"not json","date":1000,"edge":[],`+
		`"handler":{},"mode":{"bool":false,"visible":false,"sync":true},"profile":{"type":"sensor"}}` {
		t.Error("Unexpected result:", string(out), err)
		return
	}

	// Snapshots can be part of maps

	out, err = json.Marshal(map[string]*Vertex{"a": {Date: 1, Data: "x"}})
	if err != nil || string(out) != `{"a":{"data":"x","date":1}}` {
		t.Error("Unexpected result:", string(out), err)
		return
	}
}
