/*
fixdecoder — FIX protocol decoder tools
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
package fix

import "maps"

// SensitiveTags are the tags masked by default when obfuscation is on.
var SensitiveTags = map[int]string{
	1:   "Account",
	11:  "ClOrdID",
	37:  "OrderID",
	41:  "OrigClOrdID",
	49:  "SenderCompID",
	50:  "SenderSubID",
	56:  "TargetCompID",
	57:  "TargetSubID",
	109: "ClientID",
	115: "OnBehalfOfCompID",
	128: "DeliverToCompID",
	448: "PartyID",
	553: "Username",
	554: "Password",
}

// DefaultSensitiveTags returns a copy of SensitiveTags that callers may extend.
func DefaultSensitiveTags() map[int]string {
	return maps.Clone(SensitiveTags)
}
