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
package message

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stephenlclarke/fixmessage/checksum"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindInvalidChecksum, Err: checksum.ErrFieldNotFound}, "invalid FIX message checksum: checksum field not found"},
		{&Error{Kind: KindInvalidChecksumValue}, "invalid value of FIX message checksum"},
		{&Error{Kind: KindInvalidFieldStructure}, "invalid structure of FIX message field, should be <tag>=<value>"},
		{&Error{Kind: KindInvalidSecondField, Tag: "35"}, "invalid second field, should be `9` but found: 35"},
		{&Error{Kind: KindInvalidThirdField, Tag: "34"}, "invalid third field, should be `35` but found: 34"},
		{ErrInvalidThirdField, "invalid third field, should be `35`"},
		{&Error{Kind: KindExtraRequiredFieldFound, Tag: "49"}, "required field found more than once: 49"},
		{&Error{Kind: KindNotAllRequiredFieldsFound, Missing: []string{"34", "52"}}, "not all required fields found, missing: 34,52"},
		{ErrNotAllRequiredFieldsFound, "not all required fields found"},
		{&Error{Kind: Kind(99)}, "kind(99)"},
	}

	for _, tt := range tests {
		assert.EqualError(t, tt.err, tt.want)
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("decoding line 3: %w", &Error{Kind: KindExtraRequiredFieldFound, Tag: "35"})

	assert.True(t, errors.Is(err, ErrExtraRequiredFieldFound))
	assert.False(t, errors.Is(err, ErrNotAllRequiredFieldsFound))
	assert.Equal(t, KindExtraRequiredFieldFound, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(errors.New("other")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_checksum", KindInvalidChecksum.String())
	assert.Equal(t, "not_all_required_fields_found", KindNotAllRequiredFieldsFound.String())
}

func TestMessageAccessors(t *testing.T) {
	msg := &Message{
		Version: "FIX.4.2",
		Fields: []Field{
			{Tag: "8", Value: "FIX.4.2"},
			{Tag: "9", Value: "5"},
			{Tag: "35", Value: "D"},
			{Tag: "58", Value: "first"},
			{Tag: "58", Value: "second"},
		},
	}

	v, ok := msg.Get("58")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = msg.Get("11")
	assert.False(t, ok)

	assert.Equal(t, "D", msg.MsgType())
	assert.Equal(t, "FIX.4.2\n[8=FIX.4.2 9=5 35=D 58=first 58=second]", msg.String())

	cp := msg.Clone()
	cp.Fields[3].Value = "changed"
	assert.Equal(t, "first", msg.Fields[3].Value)
}

func TestTagTables(t *testing.T) {
	assert.Equal(t, "SenderCompID", TagName("49"))
	assert.Equal(t, "", TagName("99999"))
	assert.Equal(t, "Logon", MsgTypeName("A"))
	assert.True(t, IsRequired("52"))
	assert.False(t, IsRequired("10"))
	assert.Contains(t, KnownTags(), "112")
}

func TestRequiredTagsIsACopy(t *testing.T) {
	want := []string{"8", "9", "35", "49", "56", "34", "52"}

	tags := RequiredTags()
	assert.Equal(t, want, tags)

	tags[6] = "112"
	assert.Equal(t, want, RequiredTags())
	assert.True(t, IsRequired("52"))
	assert.False(t, IsRequired("112"))

	_, err := Parse(signed(heartbeat...))
	assert.NoError(t, err)
}
