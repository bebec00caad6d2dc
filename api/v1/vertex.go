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
	"net/http"

	"github.com/gorilla/websocket"

	"devt.de/krotik/vdevd/api"
	"devt.de/krotik/vdevd/session"
)

/*
EndpointVertex is the vertex endpoint URL (rooted). Handles websockets under vertex/
*/
const EndpointVertex = api.APIRoot + APIv1 + "/vertex/"

/*
upgrader can upgrade normal requests to websocket communications
*/
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

/*
VertexEndpointInst creates a new endpoint handler.
*/
func VertexEndpointInst() api.RestEndpointHandler {
	return &vertexEndpoint{}
}

/*
Handler object for vertex sessions.
*/
type vertexEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET upgrades the connection to a websocket and serves a session until
the connection is closed.
*/
func (e *vertexEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	// Update the incomming connection to a websocket
	// If the upgrade fails then the client gets an HTTP error response.

	conn, err := upgrader.Upgrade(w, r, nil)

	if err != nil {

		// We give details here on what went wrong

		w.Write([]byte(err.Error()))
		return
	}

	wc := session.NewWebsocketConnection(conn)
	s := session.NewSession(wc)
	d := session.NewDispatcher(api.GM, api.WE, api.Auth)

	logger.Info("Session ", s.ID(), " connected from ", r.RemoteAddr)

	defer func() {

		// Unregister the session from the watch engine

		d.Close(s)
		wc.Close("")

		logger.Info("Session ", s.ID(), " disconnected")
	}()

	for {

		// Read websocket message

		msg, err := wc.ReadMessage()

		if err != nil {
			logger.Debug("Session ", s.ID(), " read error: ", err)
			return
		}

		// Requests of a connection are handled in order

		if err := d.Dispatch(s, msg); err != nil {
			logger.Debug("Session ", s.ID(), " write error: ", err)
			return
		}
	}
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (e *vertexEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/vertex"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary": "Open a vertex session.",
			"description": "Upgrades the connection to a websocket. Each websocket " +
				"message is a VertexRequest which is answered with a VertexResponse " +
				"of the same id. The first list request subscribes the session to " +
				"changes which are pushed as VertexResponse with the id of the list request.",
			"parameters": []map[string]interface{}{
				{
					"name":        "Upgrade",
					"in":          "header",
					"description": "Websocket upgrade header.",
					"required":    true,
					"type":        "string",
					"enum":        []string{"websocket"},
				},
			},
			"responses": map[string]interface{}{
				"101": map[string]interface{}{
					"description": "Switching to the websocket protocol.",
					"schema": map[string]interface{}{
						"$ref": "#/definitions/VertexResponse",
					},
				},
				"default": map[string]interface{}{
					"description": "Error response",
					"schema": map[string]interface{}{
						"$ref": "#/definitions/Error",
					},
				},
			},
		},
	}

	// Add the message envelope to the definitions

	s["definitions"].(map[string]interface{})["VertexRequest"] = map[string]interface{}{
		"description": "Websocket request message.",
		"type":        "object",
		"required":    []string{"id", "action"},
		"properties": map[string]interface{}{
			"id": map[string]interface{}{
				"description": "Request id (number or string) which is echoed in the response.",
			},
			"action": map[string]interface{}{
				"description": "Requested action.",
				"type":        "string",
				"enum":        session.Actions(),
			},
			"vertex": map[string]interface{}{
				"description": "Vertex id (32 lowercase hex characters).",
				"type":        "string",
			},
			"data": map[string]interface{}{
				"description": "Payload of the action.",
			},
		},
	}

	s["definitions"].(map[string]interface{})["VertexResponse"] = map[string]interface{}{
		"description": "Websocket response or push message.",
		"type":        "object",
		"required":    []string{"id", "err"},
		"properties": map[string]interface{}{
			"id": map[string]interface{}{
				"description": "Id of the answered request.",
			},
			"err": map[string]interface{}{
				"description": "Flag if the request failed.",
				"type":        "boolean",
			},
			"data": map[string]interface{}{
				"description": "Result of the action.",
			},
		},
	}
}
