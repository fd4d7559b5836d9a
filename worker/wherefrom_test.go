package worker

import "testing"

func TestWhereFromPlistRoundTrip(t *testing.T) {
	urls := []string{
		"https://example.com/downloads/song.mp3",
		"https://example.com/album",
	}

	data, err := encodeWhereFrom(urls)
	if err != nil {
		t.Fatal(err)
	}
	// Finder stores the attribute as a binary plist.
	if string(data[:8]) != "bplist00" {
		t.Errorf("encoded plist header = %q, want bplist00", data[:8])
	}

	got := decodeWhereFrom(data)
	if len(got) != 2 || got[0] != urls[0] || got[1] != urls[1] {
		t.Errorf("decoded urls = %v, want %v", got, urls)
	}
}

func TestDecodeWhereFrom_Garbage(t *testing.T) {
	if got := decodeWhereFrom([]byte("not a plist")); got != nil {
		t.Errorf("garbage should decode to nil, got %v", got)
	}
}

func TestReadWhereFrom_AbsentAttribute(t *testing.T) {
	// Attribute reads are best-effort: a file without the attribute (or a
	// filesystem without xattr support) yields "".
	if got := readWhereFrom("/nonexistent/file.mp3"); got != "" {
		t.Errorf("readWhereFrom = %q, want empty", got)
	}
}
