/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"devt.de/krotik/vdevd/graph/data"
	"devt.de/krotik/vdevd/graph/util"
)

/*
SetRule validates a decoded rule object and compiles it for a vertex.
*/
func (gm *Manager) SetRule(uid string, vid string, obj interface{}) error {

	if err := checkIdentifiers(uid, vid); err != nil {
		return err
	}

	rule, err := data.NewRule(obj)
	if err != nil {
		return err
	}

	return gm.CompileRule(uid, vid, rule)
}

/*
CompileRule writes the handler of a rule and adds an edge to the rule
destination. No edge is added if the destination is the vertex itself. The
handler is not removed if the edge cannot be added; calling CompileRule again
with the same rule is safe.
*/
func (gm *Manager) CompileRule(uid string, vid string, rule *data.Rule) error {

	if err := checkIdentifiers(uid, vid); err != nil {
		return err
	} else if !util.IsValidIdentifier(rule.Dst) {
		return &util.GraphError{Type: util.ErrInvalidRule, Detail: "dst must be a valid identifier"}
	}

	loc := util.AttrPath(uid, vid, AttrHandler)

	if err := gm.gs.Write(loc, []byte(rule.Handler())); err != nil {
		return storeError(err, loc)
	}

	if rule.Dst == vid {
		return nil
	}

	return gm.AddEdge(uid, vid, rule.Dst)
}
