/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package util

import (
	"path"
	"regexp"
)

/*
Property kinds of a user namespace
*/
const (
	KindNone   = ""
	KindVertex = "vertex"
	KindEdge   = "edge"
	KindAttr   = "attr"
)

/*
IdentifierLength is the length of a valid identifier
*/
const IdentifierLength = 32

var identifierPattern = regexp.MustCompile("^[0-9a-f]{32}$")

/*
IsValidIdentifier checks if a given string is a 32 character lowercase
hexadecimal token.
*/
func IsValidIdentifier(s string) bool {
	return len(s) == IdentifierLength && identifierPattern.MatchString(s)
}

/*
CheckIdentifier returns an ErrInvalidIdentifier error if the given string is
not a valid identifier.
*/
func CheckIdentifier(s string) error {
	if !IsValidIdentifier(s) {
		return &GraphError{ErrInvalidIdentifier, s}
	}
	return nil
}

/*
ResolvePath returns the store location for a given user, property kind,
vertex and sub key. Empty parts are omitted: no vertex yields the user root
or the kind root, a sub key (edge destination or attribute name) yields the
leaf. The function never touches the store and does not validate its
arguments.
*/
func ResolvePath(uid string, kind string, vid string, sub string) string {
	if kind != KindNone {
		if vid != "" {
			if sub != "" {
				return path.Join(uid, kind, vid, sub)
			}
			return path.Join(uid, kind, vid)
		}
		return path.Join(uid, kind)
	}

	if vid != "" {
		return path.Join(uid, vid)
	}

	return uid
}

/*
UserPath returns the root location of a user namespace.
*/
func UserPath(uid string) string {
	return ResolvePath(uid, KindNone, "", "")
}

/*
DataPath returns the location of the data record of a vertex.
*/
func DataPath(uid string, vid string) string {
	return ResolvePath(uid, KindNone, vid, "")
}

/*
VertexPath returns the location of the vertex namespace or of a single entry in it.
*/
func VertexPath(uid string, vid string) string {
	return ResolvePath(uid, KindVertex, vid, "")
}

/*
EdgePath returns the location of the edge list of a vertex or of a single
edge marker if dst is given.
*/
func EdgePath(uid string, vid string, dst string) string {
	return ResolvePath(uid, KindEdge, vid, dst)
}

/*
AttrPath returns the location of a vertex attribute.
*/
func AttrPath(uid string, vid string, attr string) string {
	return ResolvePath(uid, KindAttr, vid, attr)
}
