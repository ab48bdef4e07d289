package serialize

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

// Manifests use the protobuf wire format without generated code:
//
//	message Manifest { string root = 1; repeated Entry entries = 2; }
//	message Entry    { string path = 1; int64 size = 2; bytes checksum = 3; }
//
// Unknown fields are skipped so newer writers stay readable.
const (
	manifestRootField  protowire.Number = 1
	manifestEntryField protowire.Number = 2

	entryPathField     protowire.Number = 1
	entrySizeField     protowire.Number = 2
	entryChecksumField protowire.Number = 3
)

// MarshalManifest encodes m in the manifest wire format.
func MarshalManifest(m *domain.Manifest) []byte {
	var b []byte
	b = protowire.AppendTag(b, manifestRootField, protowire.BytesType)
	b = protowire.AppendString(b, m.Root)

	var entry []byte
	for _, e := range m.Entries {
		entry = entry[:0]
		entry = protowire.AppendTag(entry, entryPathField, protowire.BytesType)
		entry = protowire.AppendString(entry, e.Path)
		entry = protowire.AppendTag(entry, entrySizeField, protowire.VarintType)
		entry = protowire.AppendVarint(entry, uint64(e.Size))
		entry = protowire.AppendTag(entry, entryChecksumField, protowire.BytesType)
		entry = protowire.AppendBytes(entry, e.Checksum[:])

		b = protowire.AppendTag(b, manifestEntryField, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}

	return b
}

// UnmarshalManifest decodes the manifest wire format. A checksum that is not
// exactly 32 bytes is reported with category ErrorLength, any other
// malformation with ErrorManifest.
func UnmarshalManifest(b []byte) (*domain.Manifest, error) {
	m := &domain.Manifest{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, manifestError(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == manifestRootField && typ == protowire.BytesType:
			root, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, manifestError(protowire.ParseError(n))
			}
			m.Root = root
			b = b[n:]

		case num == manifestEntryField && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, manifestError(protowire.ParseError(n))
			}
			entry, err := unmarshalEntry(raw)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, entry)
			b = b[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, manifestError(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	return m, nil
}

func unmarshalEntry(b []byte) (domain.ManifestEntry, error) {
	var (
		entry       domain.ManifestEntry
		hasChecksum bool
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return entry, manifestError(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == entryPathField && typ == protowire.BytesType:
			path, n := protowire.ConsumeString(b)
			if n < 0 {
				return entry, manifestError(protowire.ParseError(n))
			}
			entry.Path = path
			b = b[n:]

		case num == entrySizeField && typ == protowire.VarintType:
			size, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return entry, manifestError(protowire.ParseError(n))
			}
			if size > math.MaxInt64 {
				return entry, manifestError(fmt.Errorf("entry %q size %d out of range", entry.Path, size))
			}
			entry.Size = int64(size)
			b = b[n:]

		case num == entryChecksumField && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return entry, manifestError(protowire.ParseError(n))
			}
			sum, err := domain.ChecksumFromBytes(raw)
			if err != nil {
				return entry, fmt.Errorf("manifest entry %q: %w", entry.Path, err)
			}
			entry.Checksum = sum
			hasChecksum = true
			b = b[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return entry, manifestError(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	if entry.Path == "" {
		return entry, manifestError(fmt.Errorf("entry without path"))
	}
	if !hasChecksum {
		return entry, manifestError(fmt.Errorf("entry %q has no checksum", entry.Path))
	}
	return entry, nil
}

func manifestError(err error) error {
	return cerrors.New(cerrors.ErrorManifest, "decode manifest", "", err)
}
