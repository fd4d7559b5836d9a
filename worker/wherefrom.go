package worker

import (
	"github.com/pkg/xattr"
	"howett.net/plist"
)

// whereFromAttr is the extended attribute Finder uses to record a file's
// download origin. Its value is a binary plist holding an array of URLs;
// the first entry is the direct source.
const whereFromAttr = "com.apple.metadata:kMDItemWhereFroms"

// readWhereFrom returns the first where-from URL, or "" when the attribute
// is absent or unreadable. Errors are deliberately swallowed: metadata
// outside the tag block is advisory.
func readWhereFrom(path string) string {
	data, err := xattr.Get(path, whereFromAttr)
	if err != nil {
		return ""
	}
	urls := decodeWhereFrom(data)
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// writeWhereFrom sets the attribute to url, or removes it when url is
// empty. Best-effort on both paths.
func writeWhereFrom(path, url string) {
	if url == "" {
		_ = xattr.Remove(path, whereFromAttr)
		return
	}
	data, err := encodeWhereFrom([]string{url})
	if err != nil {
		return
	}
	_ = xattr.Set(path, whereFromAttr, data)
}

func decodeWhereFrom(data []byte) []string {
	var urls []string
	if _, err := plist.Unmarshal(data, &urls); err != nil {
		return nil
	}
	return urls
}

func encodeWhereFrom(urls []string) ([]byte, error) {
	return plist.Marshal(urls, plist.BinaryFormat)
}
