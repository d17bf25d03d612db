// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package segments

// GSM 03.38 default alphabet, in code order (0x00 to 0x7F, escape omitted).
const basicAlphabet = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"

// GSM 03.38 extension table. Each of these is sent as ESC plus one septet.
const extensionTable = "\f^{}\\[~]|€"

var (
	basicSet     = runeSet(basicAlphabet)
	extensionSet = runeSet(extensionTable)
)

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// IsGSM7 reports whether every character of text can be carried by the
// GSM 03.38 alphabet, extension table included.
func IsGSM7(text string) bool {
	for _, r := range text {
		if septets(r) == 0 {
			return false
		}
	}
	return true
}

// septets returns the number of septets r occupies in GSM-7, or 0 when r has
// no GSM-7 representation.
func septets(r rune) int {
	if _, ok := basicSet[r]; ok {
		return 1
	}
	if _, ok := extensionSet[r]; ok {
		return 2
	}
	return 0
}

// unsupportedGSM lists, in order of first appearance, the characters of text
// GSM-7 cannot carry.
func unsupportedGSM(text string) []string {
	var ret []string
	seen := make(map[rune]struct{})
	for _, r := range text {
		if septets(r) > 0 {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		ret = append(ret, string(r))
	}
	return ret
}
