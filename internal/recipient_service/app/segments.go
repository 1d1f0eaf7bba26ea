package app

import "unicode/utf16"

// Encoding is the SMS data coding a message body requires.
type Encoding string

const (
	EncodingGSM7 Encoding = "GSM7"
	EncodingUCS2 Encoding = "UCS2"
)

const (
	gsm7SingleLimit = 160
	gsm7PartLimit   = 153
	ucs2SingleLimit = 70
	ucs2PartLimit   = 67
)

// GSM 03.38 default alphabet, escape excluded.
const gsm7Basic = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"

// Extension table characters cost an escape septet plus the character.
const gsm7Extension = "\f^{}\\[~]|€"

var (
	gsm7BasicSet     = runeSet(gsm7Basic)
	gsm7ExtensionSet = runeSet(gsm7Extension)
)

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// SegmentInfo describes how a message body is split for delivery.
type SegmentInfo struct {
	Encoding   Encoding `json:"encoding"`
	Characters int      `json:"characters"` // Septets for GSM7, UTF-16 code units for UCS2
	Segments   int      `json:"segments"`
}

// CountSegments picks the encoding for content and counts the parts needed
// to send it to one recipient. Empty content needs no segment. A character
// costing two units, a GSM-7 escape pair or a UTF-16 surrogate pair, never
// straddles two parts.
func CountSegments(content string) SegmentInfo {
	if costs, ok := gsm7Costs(content); ok {
		return packParts(EncodingGSM7, costs, gsm7SingleLimit, gsm7PartLimit)
	}
	return packParts(EncodingUCS2, ucs2Costs(content), ucs2SingleLimit, ucs2PartLimit)
}

func gsm7Costs(content string) ([]int, bool) {
	costs := make([]int, 0, len(content))
	for _, r := range content {
		if _, ok := gsm7BasicSet[r]; ok {
			costs = append(costs, 1)
			continue
		}
		if _, ok := gsm7ExtensionSet[r]; ok {
			costs = append(costs, 2)
			continue
		}
		return nil, false
	}
	return costs, true
}

func ucs2Costs(content string) []int {
	costs := make([]int, 0, len(content))
	for _, r := range content {
		costs = append(costs, utf16.RuneLen(r))
	}
	return costs
}

// packParts fills multipart segments greedily, moving a character to the
// next part when it does not fit in the space left.
func packParts(enc Encoding, costs []int, single, multi int) SegmentInfo {
	total := 0
	for _, c := range costs {
		total += c
	}
	info := SegmentInfo{Encoding: enc, Characters: total}
	switch {
	case total == 0:
		return info
	case total <= single:
		info.Segments = 1
		return info
	}

	info.Segments = 1
	used := 0
	for _, c := range costs {
		if used+c > multi {
			info.Segments++
			used = 0
		}
		used += c
	}
	return info
}
