/*
 * vdevd
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ac

import (
	"errors"
	"sync"
	"testing"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/vdevd/graph/util"
)

func TestAuthenticate(t *testing.T) {
	md := NewMemoryDirectory()

	md.AddUser(&User{"alice", testUID, stringutil.MD5HexString("p")})
	md.AddUser(&User{"bob", "foo", stringutil.MD5HexString("p")})

	a := NewAuthenticator(md, 3, 0)

	if a.Directory() != md {
		t.Error("Unexpected directory")
		return
	}

	if uid, err := a.Authenticate("alice", "p"); err != nil || uid != testUID {
		t.Error("Unexpected result:", uid, err)
		return
	}

	if _, err := a.Authenticate("alice", "q"); !errors.Is(err, util.ErrAuthFailure) {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := a.Authenticate("nobody", "p"); !errors.Is(err, util.ErrAuthFailure) {
		t.Error("Unexpected result:", err)
		return
	}

	// Users with an invalid uid cannot log in

	if _, err := a.Authenticate("bob", "p"); !errors.Is(err, util.ErrAuthFailure) {
		t.Error("Unexpected result:", err)
		return
	}

	// Directory errors are authentication failures

	md.LookupHook = func(name string) error {
		return errors.New("Testerror")
	}

	if _, err := a.Authenticate("carol", "p"); !errors.Is(err, util.ErrAuthFailure) {
		t.Error("Unexpected result:", err)
		return
	}

	md.LookupHook = nil
}

func TestAuthenticateDebounce(t *testing.T) {
	md := NewMemoryDirectory()

	md.AddUser(&User{"alice", testUID, stringutil.MD5HexString("p")})

	a := NewAuthenticator(md, 3, 0)

	// A successful login resets the failure count

	a.Authenticate("alice", "x")
	a.Authenticate("alice", "x")

	if uid, err := a.Authenticate("alice", "p"); err != nil || uid != testUID {
		t.Error("Unexpected result:", uid, err)
		return
	}

	a.Authenticate("alice", "x")
	a.Authenticate("alice", "x")

	if uid, err := a.Authenticate("alice", "p"); err != nil || uid != testUID {
		t.Error("Unexpected result:", uid, err)
		return
	}

	// Three failures block the user

	lookups := 0

	md.LookupHook = func(name string) error {
		lookups++
		return nil
	}

	a.Authenticate("alice", "x")
	a.Authenticate("alice", "x")
	a.Authenticate("alice", "x")

	if _, err := a.Authenticate("alice", "p"); !errors.Is(err, util.ErrAuthFailure) {
		t.Error("Unexpected result:", err)
		return
	}

	if lookups != 3 {
		t.Error("Blocked user should not be looked up:", lookups)
		return
	}
}

func TestAuthenticateConcurrentFailures(t *testing.T) {
	md := NewMemoryDirectory()

	md.AddUser(&User{"alice", testUID, stringutil.MD5HexString("p")})

	a := NewAuthenticator(md, 50, 0)

	fail := func(n int) {
		var wg sync.WaitGroup

		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.Authenticate("alice", "x")
			}()
		}

		wg.Wait()
	}

	// Concurrent failures are all counted

	fail(49)

	if res, ok := a.failedLogins.Get("alice"); !ok || res != 49 {
		t.Error("Unexpected result:", res, ok)
		return
	}

	if _, ok := a.debounceUsers.Get("alice"); ok {
		t.Error("User should not be blocked yet")
		return
	}

	fail(1)

	if _, ok := a.debounceUsers.Get("alice"); !ok {
		t.Error("User should be blocked")
		return
	}

	if _, err := a.Authenticate("alice", "p"); !errors.Is(err, util.ErrAuthFailure) {
		t.Error("Unexpected result:", err)
		return
	}
}
