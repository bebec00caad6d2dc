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
	"errors"
	"fmt"
	"sync"
	"testing"

	"devt.de/krotik/vdevd/graph/util"
)

/*
testSender records all written responses as JSON strings.
*/
type testSender struct {
	out   []string
	err   error
	mutex sync.Mutex
}

func (ts *testSender) WriteResponse(resp *Response) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.err != nil {
		return ts.err
	}

	res, err := json.Marshal(resp)
	ts.out = append(ts.out, string(res))

	return err
}

func (ts *testSender) String() string {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	return fmt.Sprint(ts.out)
}

func TestSession(t *testing.T) {
	sender := &testSender{}

	s := NewSession(sender)
	s2 := NewSession(sender)

	if !util.IsValidIdentifier(s.ID()) || s.ID() == s2.ID() {
		t.Error("Unexpected session ids:", s.ID(), s2.ID())
		return
	}

	if s.IsAuthenticated() || s.UID() != "" || s.IsSubscribed() {
		t.Error("Unexpected session state")
		return
	}

	if err := s.BindUser("foo"); !errors.Is(err, util.ErrInvalidIdentifier) {
		t.Error("Unexpected result:", err)
		return
	}

	if err := s.BindUser(testUser); err != nil {
		t.Error(err)
		return
	}

	if err := s.BindUser(testUser); !errors.Is(err, util.ErrAlreadyAuthenticated) {
		t.Error("Unexpected result:", err)
		return
	}

	if !s.IsAuthenticated() || s.UID() != testUser {
		t.Error("Unexpected session state")
		return
	}

	if s.setSubscribed(true) || !s.IsSubscribed() {
		t.Error("Unexpected session state")
		return
	}

	if err := s.Deliver(&Response{ID: json.RawMessage("1"), Data: []int{1}}); err != nil {
		t.Error(err)
		return
	}

	if err := s.Deliver(&Response{ID: json.RawMessage(`"x"`), Err: true}); err != nil {
		t.Error(err)
		return
	}

	if res := sender.String(); res != `[{"id":1,"err":false,"data":[1]} {"id":"x","err":true}]` {
		t.Error("Unexpected result:", res)
		return
	}
}
