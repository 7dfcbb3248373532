package row

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	dberror "nsql/pkg/error"
)

func TestLayoutConstants(t *testing.T) {
	if RowSize != 293 {
		t.Errorf("RowSize = %d, want 293", RowSize)
	}
	if UsernameOffset != 4 || EmailOffset != 37 {
		t.Errorf("unexpected offsets: username %d, email %d", UsernameOffset, EmailOffset)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		id       int32
		username string
		email    string
		wantErr  error
	}{
		{"valid", 1, "xunda", "xunda@example.com", nil},
		{"max length strings", 1, strings.Repeat("a", 32), strings.Repeat("a", 255), nil},
		{"empty strings", 7, "", "", nil},
		{"zero id", 0, "a", "b", dberror.ErrNegativeID},
		{"negative id", -1, "xunda", "dunha@example.org", dberror.ErrNegativeID},
		{"username too long", 1, strings.Repeat("a", 33), "a", dberror.ErrStringTooLong},
		{"email too long", 1, "a", strings.Repeat("a", 256), dberror.ErrStringTooLong},
		{"both too long", 1, strings.Repeat("a", 33), strings.Repeat("a", 257), dberror.ErrStringTooLong},
		{"negative id wins over long strings", -5, strings.Repeat("a", 33), "a", dberror.ErrNegativeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id, tt.username, tt.email)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNew_RejectsInvalid(t *testing.T) {
	r, err := New(-1, "a", "b")
	if err == nil {
		t.Fatal("expected error")
	}
	if r != (Row{}) {
		t.Errorf("expected zero row on failure, got %+v", r)
	}
}

func TestRoundTrip(t *testing.T) {
	rows := []Row{
		{ID: 1, Username: "xunda", Email: "xunda@example.com"},
		{ID: 2147483647, Username: strings.Repeat("u", 32), Email: strings.Repeat("e", 255)},
		{ID: 42, Username: "", Email: ""},
		{ID: 3, Username: "ünïcødé", Email: "日本@example.jp"},
	}

	for _, r := range rows {
		buf := r.Encode()
		if len(buf) != RowSize {
			t.Fatalf("encoded length %d, want %d", len(buf), RowSize)
		}
		if got := Deserialize(buf); got != r {
			t.Errorf("round trip: got %+v, want %+v", got, r)
		}
	}
}

func TestSerialize_ClearsStaleBytes(t *testing.T) {
	buf := bytes.Repeat([]byte{0xFF}, RowSize)
	Row{ID: 9, Username: "ab", Email: "c"}.Serialize(buf)

	if buf[UsernameOffset+2] != 0 {
		t.Error("username slot not zero padded")
	}
	if !bytes.Equal(buf[EmailOffset+1:EmailOffset+EmailSize], make([]byte, EmailSize-1)) {
		t.Error("email slot not zero padded")
	}

	got := Deserialize(buf)
	if got.Username != "ab" || got.Email != "c" {
		t.Errorf("unexpected decode: %+v", got)
	}
}

func TestSerialize_LittleEndianID(t *testing.T) {
	buf := Row{ID: 0x01020304}.Encode()
	if !bytes.Equal(buf[:4], []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Errorf("id bytes = %v", buf[:4])
	}
}

func TestSerialize_ShortBufferPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Row{ID: 1}.Serialize(make([]byte, RowSize-1))
}

func TestString(t *testing.T) {
	r := Row{ID: 1, Username: "xunda", Email: "xunda@example.com"}
	if got := r.String(); got != "(1, xunda, xunda@example.com)" {
		t.Errorf("String() = %q", got)
	}
	if vals := r.Values(); len(vals) != 3 || vals[0] != "1" {
		t.Errorf("Values() = %v", vals)
	}
}
