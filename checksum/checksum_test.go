/*
fixmessage — FIX message parsing and validation
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package checksum

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixMessage(fields ...string) string {
	return strings.Join(fields, soh)
}

var heartbeat = []string{
	"8=FIX.4.2", "9=73", "35=0", "49=BRKR", "56=INVMGR",
	"34=235", "52=19980604-07:58:28", "112=19980604-07:58:28",
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		msg   string
		valid bool
	}{
		{"correct checksum", fixMessage(append(heartbeat, "10=236")...), true},
		{"correct checksum with trailing SOH", fixMessage(append(heartbeat, "10=236")...) + soh, true},
		{"leading zeros", fixMessage(append(heartbeat, "10=0236")...), true},
		{"wrong checksum", fixMessage(append(heartbeat, "10=231")...), false},
		{"checksum out of byte range", fixMessage(append(heartbeat, "10=492")...), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := Validate(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestValidateMissingField(t *testing.T) {
	for _, msg := range []string{
		"",
		fixMessage(heartbeat...),
		"10=236",
		fixMessage(append(heartbeat, "110=236")...),
	} {
		_, err := Validate(msg)
		assert.ErrorIs(t, err, ErrFieldNotFound, "message %q", msg)
	}
}

func TestValidateInvalidFormat(t *testing.T) {
	for _, value := range []string{"2ZZ", "", "-1", "99999999999"} {
		_, err := Validate(fixMessage(append(heartbeat, "10="+value)...))

		var formatErr *FormatError
		require.True(t, errors.As(err, &formatErr), "value %q: got %v", value, err)
		assert.Equal(t, value, formatErr.Value)

		var numErr *strconv.NumError
		assert.True(t, errors.As(err, &numErr), "value %q should wrap a *strconv.NumError", value)
	}
}

func TestValidateUsesFirstChecksumField(t *testing.T) {
	prefix := fixMessage("8=FIX.4.2", "9=5", "35=0") + soh
	msg := prefix + "10=" + Format(Sum(prefix)) + soh + "10=999"

	valid, err := Validate(msg)
	require.NoError(t, err)
	assert.True(t, valid)

	msg = prefix + "10=ZZZ" + soh + "10=" + Format(Sum(prefix+"10=ZZZ"+soh))
	valid, err = Validate(msg)
	assert.False(t, valid)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "ZZZ", formatErr.Value)
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0, Sum(""))
	assert.Equal(t, 65, Sum("A"))
	assert.Equal(t, 254, Sum("\xff\xff"))
	assert.Equal(t, 236, Sum(fixMessage(heartbeat...)+soh))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "007", Format(7))
	assert.Equal(t, "236", Format(236))
}
