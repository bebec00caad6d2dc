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
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

/*
WebsocketConnection models a single websocket connection.

Websocket connections support one concurrent reader and one concurrent writer.
See: https://godoc.org/github.com/gorilla/websocket#hdr-Concurrency
*/
type WebsocketConnection struct {
	Conn   *websocket.Conn
	RMutex *sync.Mutex
	WMutex *sync.Mutex
}

/*
NewWebsocketConnection creates a new WebsocketConnection object.
*/
func NewWebsocketConnection(c *websocket.Conn) *WebsocketConnection {
	return &WebsocketConnection{
		Conn:   c,
		RMutex: &sync.Mutex{},
		WMutex: &sync.Mutex{}}
}

/*
ReadMessage reads the next message from the websocket connection. Binary
and text messages are both accepted.
*/
func (wc *WebsocketConnection) ReadMessage() ([]byte, error) {
	wc.RMutex.Lock()
	defer wc.RMutex.Unlock()

	_, msg, err := wc.Conn.ReadMessage()

	return msg, err
}

/*
WriteResponse writes a response to the websocket.
*/
func (wc *WebsocketConnection) WriteResponse(resp *Response) error {
	jsonData, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	wc.WMutex.Lock()
	defer wc.WMutex.Unlock()

	return wc.Conn.WriteMessage(websocket.TextMessage, jsonData)
}

/*
Close closes the websocket connection.
*/
func (wc *WebsocketConnection) Close(msg string) {
	wc.WMutex.Lock()
	wc.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(
			websocket.CloseNormalClosure, msg), time.Now().Add(10*time.Second))
	wc.WMutex.Unlock()

	wc.Conn.Close()
}
