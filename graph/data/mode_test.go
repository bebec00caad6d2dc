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
	"encoding/json"
	"testing"
)

func TestModeFlags(t *testing.T) {

	if res := Mode(0).Flags(); res.Bool || res.Visible || res.Sync {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Mode(512 + 128 + 64).Flags(); !res.Bool || !res.Visible || !res.Sync {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Mode(64).Flags(); res.Bool || res.Visible || !res.Sync {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Mode(128 + 63).Flags(); res.Bool || !res.Visible || res.Sync {
		t.Error("Unexpected result:", res)
		return
	}

	// Bits above 1023 do not influence the flags

	if res := Mode(1024 + 512).Flags(); !res.Bool || res.Visible || res.Sync {
		t.Error("Unexpected result:", res)
		return
	}

	out, _ := json.Marshal(Mode(576).Flags())
	if string(out) != `{"bool":true,"visible":false,"sync":true}` {
		t.Error("Unexpected result:", string(out))
		return
	}
}

func TestModeWithSync(t *testing.T) {

	if res := Mode(0).WithSync(true); res != 64 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Mode(64).WithSync(false); res != 0 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Mode(512 + 128 + 7).WithSync(true); res != 512+128+64+7 {
		t.Error("Unexpected result:", res)
		return
	}

	// Decoding and re-encoding with the decoded sync value is the identity

	for i := Mode(0); i < 1024; i++ {
		if res := i.WithSync(i.Sync()); res != i {
			t.Error("Unexpected result:", i, res)
			return
		}

		if res := i.WithSync(!i.Sync()); res.Bool() != i.Bool() ||
			res.Visible() != i.Visible() || res.Sync() == i.Sync() || res%64 != i%64 {
			t.Error("Unexpected result:", i, res)
			return
		}
	}
}

func TestParseMode(t *testing.T) {

	if res, err := ParseMode("704\n"); err != nil || res != 704 || res.String() != "704" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := ParseMode("foo"); err == nil {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := ParseMode("-1"); err == nil {
		t.Error("Unexpected result:", err)
		return
	}
}
