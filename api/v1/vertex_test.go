/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package v1

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"devt.de/krotik/vdevd/api"
)

func TestVertexConnectionErrors(t *testing.T) {
	queryURL := "http://localhost" + TESTPORT + EndpointVertex

	_, _, res := sendTestRequest(queryURL, "GET", nil)

	if res != `Bad Request
websocket: the client is not using the websocket protocol: 'upgrade' token not found in 'Connection' header` {
		t.Error("Unexpected response:", res)
		return
	}

	if st, _, _ := sendTestRequest(queryURL, "POST", nil); st != "405 Method Not Allowed" {
		t.Error("Unexpected response:", st)
		return
	}
}

func TestVertexSession(t *testing.T) {
	queryURL := "ws://localhost" + TESTPORT + EndpointVertex

	c, _, err := websocket.DefaultDialer.Dial(queryURL, nil)
	if err != nil {
		t.Error("Could not open websocket:", err)
		return
	}

	readMessage := func() string {
		c.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, message, err := c.ReadMessage()
		if err != nil {
			return err.Error()
		}
		return string(message)
	}

	// Requests before authentication and malformed requests are dropped

	for _, msg := range []string{
		`buu`,
		`{"id":1,"action":"list"}`,
		`{"id":1,"action":"auth","data":{"user":"alice"}}`,
		`{"id":1,"action":"auth","data":{"user":"alice","password":"x"}}`,
	} {
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Error("Could not send message:", err)
			return
		}
	}

	if res := readMessage(); res != `{"id":1,"err":true}` {
		t.Error("Unexpected response:", res)
		return
	}

	c.WriteMessage(websocket.TextMessage, []byte(`{"id":2,"action":"auth","data":{"user":"alice","password":"p"}}`))

	if res := readMessage(); res != `{"id":2,"err":false}` {
		t.Error("Unexpected response:", res)
		return
	}

	c.WriteMessage(websocket.BinaryMessage, []byte(`{"id":"l","action":"list"}`))

	if res := readMessage(); res != `{"id":"l","err":false,"data":{"`+testVertex1+`":{"data":{"t":21},`+
		`"date":1500000000123,"edge":[],"handler":{},"mode":{"bool":false,"visible":true,"sync":false},`+
		`"profile":{"unit":"C"}}}}` {
		t.Error("Unexpected response:", res)
		return
	}

	c.WriteMessage(websocket.TextMessage, []byte(`{"id":4,"action":"setSync","vertex":"`+testVertex1+`","data":true}`))

	if res := readMessage(); res != `{"id":4,"err":false}` {
		t.Error("Unexpected response:", res)
		return
	}

	// Changes of the data record are pushed with the id of the list request

	setTestNow(time.Unix(1500000060, 0))
	api.GM.SetData(testUser, testVertex1, []byte(`{"t":22}`))

	api.WE.Poll()
	api.WE.WaitAll()

	if res := readMessage(); res != `{"id":"l","err":false,"data":{"`+testVertex1+`":{"data":{"t":22},`+
		`"date":1500000060000,"edge":[],"handler":{},"mode":{"bool":false,"visible":true,"sync":true},`+
		`"profile":{"unit":"C"}}}}` {
		t.Error("Unexpected response:", res)
		return
	}

	if users := api.WE.Users(); len(users) != 1 || users[0] != testUser {
		t.Error("Unexpected subscriptions:", users)
		return
	}

	// Closing the connection removes the subscription

	if err = c.Close(); err != nil {
		t.Error("Could not close websocket:", err)
		return
	}

	for i := 0; i < 50 && len(api.WE.Users()) > 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}

	if users := api.WE.Users(); len(users) != 0 {
		t.Error("Unexpected subscriptions:", users)
		return
	}
}
