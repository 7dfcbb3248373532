package row

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Serialize writes the row into dst, which must hold at least RowSize bytes.
// Both text slots are cleared first so stale bytes never leak into a shorter value.
func (r Row) Serialize(dst []byte) {
	if len(dst) < RowSize {
		panic(fmt.Sprintf("row: serialize into %d bytes, need %d", len(dst), RowSize))
	}

	binary.LittleEndian.PutUint32(dst[IDOffset:IDOffset+IDSize], uint32(r.ID))
	writeText(dst[UsernameOffset:UsernameOffset+UsernameSize], r.Username)
	writeText(dst[EmailOffset:EmailOffset+EmailSize], r.Email)
}

// Encode returns the row as a freshly allocated RowSize-byte buffer.
func (r Row) Encode() []byte {
	buf := make([]byte, RowSize)
	r.Serialize(buf)
	return buf
}

// Deserialize decodes a row from the first RowSize bytes of src.
func Deserialize(src []byte) Row {
	if len(src) < RowSize {
		panic(fmt.Sprintf("row: deserialize from %d bytes, need %d", len(src), RowSize))
	}

	return Row{
		ID:       int32(binary.LittleEndian.Uint32(src[IDOffset : IDOffset+IDSize])),
		Username: readText(src[UsernameOffset : UsernameOffset+UsernameSize]),
		Email:    readText(src[EmailOffset : EmailOffset+EmailSize]),
	}
}

func writeText(slot []byte, s string) {
	clear(slot)
	copy(slot, s)
}

// readText stops at the first zero byte or at the end of the slot.
func readText(slot []byte) string {
	if i := bytes.IndexByte(slot, 0); i >= 0 {
		return string(slot[:i])
	}
	return string(slot)
}
