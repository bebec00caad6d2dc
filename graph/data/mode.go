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
Package data contains the value types of the vertex graph.

Mode

The mode of a vertex is a small integer which encodes three independent
flags:

	bool    floor((mode mod 1024) / 512) == 1
	visible floor((mode mod 256) / 128) == 1
	sync    floor((mode mod 128) / 64) == 1

Rule

A rule is a numeric range condition over an aspect of the vertex data. It is
compiled into a handler script for the external rule engine. The first line
of a handler is a comment holding the original rule as JSON.

Vertex

A vertex snapshot holds all attributes of a vertex. Optional attributes which
could not be read are absent from the snapshot.
*/
package data

import (
	"strconv"
	"strings"
)

/*
Mode flag weights
*/
const (
	ModeSync    Mode = 64
	ModeVisible Mode = 128
	ModeBool    Mode = 512
)

/*
Mode is the raw mode value of a vertex.
*/
type Mode int64

/*
ModeFlags are the decoded flags of a mode value.
*/
type ModeFlags struct {
	Bool    bool `json:"bool"`
	Visible bool `json:"visible"`
	Sync    bool `json:"sync"`
}

/*
ParseMode parses the stored text representation of a mode value.
*/
func ParseMode(text string) (Mode, error) {
	m, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err == nil && m < 0 {
		err = &strconv.NumError{Func: "ParseMode", Num: text, Err: strconv.ErrRange}
	}
	return Mode(m), err
}

/*
Bool returns the bool flag of this mode.
*/
func (m Mode) Bool() bool {
	return (m%1024)/512 == 1
}

/*
Visible returns the visible flag of this mode.
*/
func (m Mode) Visible() bool {
	return (m%256)/128 == 1
}

/*
Sync returns the sync flag of this mode.
*/
func (m Mode) Sync() bool {
	return (m%128)/64 == 1
}

/*
Flags returns the decoded flags of this mode.
*/
func (m Mode) Flags() ModeFlags {
	return ModeFlags{
		Bool:    m.Bool(),
		Visible: m.Visible(),
		Sync:    m.Sync(),
	}
}

/*
WithSync returns a mode value which has the sync flag set to the given value.
All other bits are preserved.
*/
func (m Mode) WithSync(enabled bool) Mode {
	res := m/128*128 + m%64

	if enabled {
		res += ModeSync
	}

	return res
}

/*
String returns the stored text representation of this mode.
*/
func (m Mode) String() string {
	return strconv.FormatInt(int64(m), 10)
}
