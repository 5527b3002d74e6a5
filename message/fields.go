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

import "slices"

const (
	// Delimiter terminates every field of a FIX message (SOH, 0x01).
	Delimiter = "\x01"

	// FieldDelimiter separates a tag from its value (0x3D).
	FieldDelimiter = "="
)

// Standard header tags.
const (
	TagBeginString  = "8"
	TagBodyLength   = "9"
	TagMsgType      = "35"
	TagSenderCompID = "49"
	TagTargetCompID = "56"
	TagMsgSeqNum    = "34"
	TagSendingTime  = "52"
)

// Standard trailer tags.
const (
	TagCheckSum = "10"
)

// requiredTags lists the header tags every message must carry exactly once
// before its CheckSum(10) field, in header order.
var requiredTags = []string{
	TagBeginString,
	TagBodyLength,
	TagMsgType,
	TagSenderCompID,
	TagTargetCompID,
	TagMsgSeqNum,
	TagSendingTime,
}

var tagNames = map[string]string{
	"1":   "Account",
	"8":   "BeginString",
	"9":   "BodyLength",
	"10":  "CheckSum",
	"11":  "ClOrdID",
	"14":  "CumQty",
	"17":  "ExecID",
	"31":  "LastPx",
	"32":  "LastQty",
	"34":  "MsgSeqNum",
	"35":  "MsgType",
	"37":  "OrderID",
	"38":  "OrderQty",
	"39":  "OrdStatus",
	"40":  "OrdType",
	"43":  "PossDupFlag",
	"44":  "Price",
	"49":  "SenderCompID",
	"50":  "SenderSubID",
	"52":  "SendingTime",
	"54":  "Side",
	"55":  "Symbol",
	"56":  "TargetCompID",
	"57":  "TargetSubID",
	"58":  "Text",
	"59":  "TimeInForce",
	"60":  "TransactTime",
	"97":  "PossResend",
	"98":  "EncryptMethod",
	"108": "HeartBtInt",
	"112": "TestReqID",
	"115": "OnBehalfOfCompID",
	"116": "OnBehalfOfSubID",
	"122": "OrigSendingTime",
	"128": "DeliverToCompID",
	"129": "DeliverToSubID",
	"150": "ExecType",
	"151": "LeavesQty",
	"448": "PartyID",
}

var msgTypeNames = map[string]string{
	"0": "Heartbeat",
	"1": "TestRequest",
	"2": "ResendRequest",
	"3": "Reject",
	"4": "SequenceReset",
	"5": "Logout",
	"8": "ExecutionReport",
	"9": "OrderCancelReject",
	"A": "Logon",
	"D": "NewOrderSingle",
	"F": "OrderCancelRequest",
	"G": "OrderCancelReplaceRequest",
	"j": "BusinessMessageReject",
}

// TagName returns the field name for tag, or "" when it is not a known tag.
func TagName(tag string) string {
	return tagNames[tag]
}

// MsgTypeName returns the message name for a MsgType(35) value.
func MsgTypeName(msgType string) string {
	return msgTypeNames[msgType]
}

// KnownTags returns every tag that TagName can resolve.
func KnownTags() []string {
	tags := make([]string, 0, len(tagNames))
	for tag := range tagNames {
		tags = append(tags, tag)
	}
	return tags
}

// RequiredTags returns a copy of the required header tags in header order.
func RequiredTags() []string {
	return slices.Clone(requiredTags)
}

// IsRequired reports whether tag is one of the standard header tags that
// must appear exactly once.
func IsRequired(tag string) bool {
	return slices.Contains(requiredTags, tag)
}
