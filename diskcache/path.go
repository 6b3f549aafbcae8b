// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package diskcache

import (
	"fmt"
	"strings"

	"github.com/spaolacci/murmur3"
)

const (
	// maxNameLen is the common file name limit (ext4, APFS, NTFS).
	maxNameLen = 255
	// truncatedNameLen leaves room for the "~" + 16 hex digit hash suffix.
	truncatedNameLen = 200
	// emptyName is the record name of the empty key. A lone '%' is never
	// produced by escaping a non-empty key.
	emptyName = "%"

	upperhex = "0123456789ABCDEF"
)

// FileName maps a key's string form to the name of its record file.
//
// ASCII letters, digits, '-', '_' and '.' are kept; every other byte becomes
// %XX. A leading '.' is escaped too, so "." and ".." and hidden names cannot
// occur. Names that would exceed maxNameLen are cut to truncatedNameLen and
// suffixed with '~' and the murmur3 hash of the full escaped name; '~' is
// always escaped, so truncated names never equal untruncated ones.
func FileName(key string) string {
	if key == "" {
		return emptyName
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if keepByte(ch) && (i > 0 || ch != '.') {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[ch>>4])
		b.WriteByte(upperhex[ch&0x0f])
	}

	name := b.String()
	if len(name) <= maxNameLen {
		return name
	}
	return fmt.Sprintf("%s~%016x", name[:truncatedNameLen], murmur3.Sum64([]byte(name)))
}

func keepByte(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	case ch == '-', ch == '_', ch == '.':
		return true
	default:
		return false
	}
}
