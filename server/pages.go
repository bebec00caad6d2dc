/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

/*
IndexSRC is a simple browser client which shows the vertices of a user.
*/
const IndexSRC = `
<!DOCTYPE html>
<html>
<head>
    <title>vdevd</title>

    <meta name="viewport" content="width=device-width, initial-scale=1">

    <style>
        body {
            font-family: sans-serif;
            margin: 2em;
        }

        table {
            border-collapse: collapse;
            margin-top: 1em;
        }

        td, th {
            border: 1px solid #cccccc;
            padding: 0.3em 0.6em;
            text-align: left;
        }

        #status {
            color: #888888;
        }
    </style>
</head>
<body>
    <form id="login">
        <input id="user" type="text" placeholder="User">
        <input id="password" type="password" placeholder="Password">
        <button type="submit">Connect</button>
        <span id="status"></span>
    </form>

    <table>
        <thead>
            <tr><th>Vertex</th><th>Date</th><th>Data</th><th>Profile</th><th>Edges</th></tr>
        </thead>
        <tbody id="vertices"></tbody>
    </table>

<script>
    var status = document.getElementById("status");
    var tbody = document.getElementById("vertices");
    var ws = null;

    function render(list) {
        tbody.innerHTML = "";

        Object.keys(list).sort().forEach(function (vid) {
            var v = list[vid];
            var row = document.createElement("tr");

            [vid, new Date(v.date).toLocaleString(), JSON.stringify(v.data),
             JSON.stringify(v.profile), (v.edge || []).join(", ")].forEach(function (text) {
                var td = document.createElement("td");
                td.textContent = text;
                row.appendChild(td);
            });

            tbody.appendChild(row);
        });
    }

    document.getElementById("login").onsubmit = function (e) {
        e.preventDefault();

        if (ws !== null) {
            ws.close();
        }

        var proto = window.location.protocol === "https:" ? "wss://" : "ws://";

        ws = new WebSocket(proto + window.location.host + "/vdev/v1/vertex/");

        ws.onopen = function () {
            ws.send(JSON.stringify({
                id: 1,
                action: "auth",
                data: {
                    user: document.getElementById("user").value,
                    password: document.getElementById("password").value
                }
            }));
        };

        ws.onmessage = function (msg) {
            var res = JSON.parse(msg.data);

            if (res.id === 1) {
                if (res.err) {
                    status.textContent = "Login failed";
                    return;
                }
                status.textContent = "Connected";
                ws.send(JSON.stringify({id: 2, action: "list"}));

            } else if (res.id === 2 && !res.err) {
                render(res.data);
            }
        };

        ws.onclose = function () {
            status.textContent = "Disconnected";
        };
    };
</script>
</body>
</html>
`
