package server

import "strconv"

// Participant and consumable ids travel as hex strings on the wire.

func idN2S(id uint64) string {
	return strconv.FormatUint(id, 16)
}

func idS2N(id string) (uint64, error) {
	return strconv.ParseUint(id, 16, 64)
}
