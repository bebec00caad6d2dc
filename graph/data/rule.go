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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"devt.de/krotik/vdevd/graph/util"
)

/*
HandlerCommentPrefix is the prefix of the first handler line which holds
the rule as JSON.
*/
const HandlerCommentPrefix = "# "

/*
Rule is a numeric range condition over an aspect of the vertex data. If the
aspect value is within [Min, Max] the destination vertex gets enabled.
*/
type Rule struct {
	Aspect int     `json:"aspect"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Dst    string  `json:"dst"`
}

/*
NewRule creates a rule from a decoded JSON object. Min and max must be JSON
numbers, aspect must be a non-negative integer and dst a valid identifier.
*/
func NewRule(obj interface{}) (*Rule, error) {
	m, ok := obj.(map[string]interface{})
	if !ok {
		return nil, &util.GraphError{Type: util.ErrInvalidRule, Detail: "Rule must be an object"}
	}

	min, ok := m["min"].(float64)
	if !ok {
		return nil, &util.GraphError{Type: util.ErrInvalidRule, Detail: "min must be a number"}
	}

	max, ok := m["max"].(float64)
	if !ok {
		return nil, &util.GraphError{Type: util.ErrInvalidRule, Detail: "max must be a number"}
	}

	aspect, ok := m["aspect"].(float64)
	if !ok || aspect < 0 || aspect != math.Trunc(aspect) || aspect > math.MaxInt32 {
		return nil, &util.GraphError{Type: util.ErrInvalidRule, Detail: "aspect must be a non-negative integer"}
	}

	dst, _ := m["dst"].(string)
	if !util.IsValidIdentifier(dst) {
		return nil, &util.GraphError{Type: util.ErrInvalidRule, Detail: "dst must be a valid identifier"}
	}

	return &Rule{int(aspect), min, max, dst}, nil
}

/*
Handler generates the handler script of this rule. The script is produced
for the external rule engine and is opaque to this server.
*/
func (r *Rule) Handler() string {
	var buf bytes.Buffer

	ruleJSON, _ := json.Marshal(r)

	buf.WriteString(HandlerCommentPrefix)
	buf.Write(ruleJSON)
	buf.WriteString("\n")
	buf.WriteString("def func(args):\n")
	buf.WriteString(fmt.Sprintf("\tr = (%v, %v)\n", formatNumber(r.Min), formatNumber(r.Max)))
	buf.WriteString("\treal = args.popitem()[1]\n")
	buf.WriteString(fmt.Sprintf("\tval = float(real[%v])\n", r.Aspect))
	buf.WriteString("\tif val >= r[0] and val <= r[1]:\n")
	buf.WriteString("\t\treturn {\"Enable\": True}\n")
	buf.WriteString("\telse:\n")
	buf.WriteString("\t\treturn {\"Enable\": False}\n")

	return buf.String()
}

/*
ParseHandler extracts the rule object from the first line of a handler script.
*/
func ParseHandler(handler string) (map[string]interface{}, error) {
	var res map[string]interface{}

	line := handler
	if i := strings.Index(handler, "\n"); i != -1 {
		line = handler[:i]
	}

	if !strings.HasPrefix(line, HandlerCommentPrefix) {
		return nil, &util.GraphError{Type: util.ErrInvalidData, Detail: "Handler has no rule comment"}
	}

	if err := json.Unmarshal([]byte(line[len(HandlerCommentPrefix):]), &res); err != nil {
		return nil, &util.GraphError{Type: util.ErrInvalidData, Detail: err.Error()}
	}

	return res, nil
}

/*
formatNumber formats a number in its shortest representation.
*/
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
