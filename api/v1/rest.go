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
Package v1 contains version 1 of the vdevd API.

/vertex

Websocket endpoint for vertex access. Each connection gets its own session.
Requests and responses are JSON objects:

	request  : {"id": <number|string>, "action": <name>, "vertex": <id>, "data": <value>}
	response : {"id": <request id>, "err": <bool>, "data": <value>}

A session has to authenticate with the auth action first. Requests of
unauthenticated sessions, malformed requests and requests with missing or
mistyped parameters get no response. The first successful list action
subscribes the session to the vertices of its user. Changes are pushed as
list responses which carry the id of the subscribing request.
*/
package v1

import (
	"devt.de/krotik/common/logutil"
	"devt.de/krotik/vdevd/api"
)

/*
APIv1 is the directory for version 1 of the API
*/
const APIv1 = "/v1"

/*
V1EndpointMap is a map of urls to endpoints for version 1 of the API
*/
var V1EndpointMap = map[string]api.RestEndpointInst{
	EndpointVertex: VertexEndpointInst,
}

var logger = logutil.GetLogger("vdevd.api")
