package checksum

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/iamNilotpal/checksum/internal/core/domain"
)

// CID returns the CIDv1 (raw codec, sha2-256 multihash) that names the
// content c was computed from. It equals the CID content-addressed stores
// derive from the same bytes.
func CID(c domain.Checksum) (cid.Cid, error) {
	mh, err := multihash.Encode(c[:], multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// ChecksumFromCID extracts the digest from a sha2-256 CID.
func ChecksumFromCID(id cid.Cid) (domain.Checksum, error) {
	if !id.Defined() {
		return domain.Checksum{}, fmt.Errorf("undefined cid")
	}

	decoded, err := multihash.Decode(id.Hash())
	if err != nil {
		return domain.Checksum{}, fmt.Errorf("decoding multihash: %w", err)
	}
	if decoded.Code != multihash.SHA2_256 {
		return domain.Checksum{}, fmt.Errorf("cid uses %s, want sha2-256", decoded.Name)
	}

	return domain.ChecksumFromBytes(decoded.Digest)
}

// ParseCID decodes a CID in any multibase encoding and returns its sha2-256
// digest.
func ParseCID(s string) (domain.Checksum, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return domain.Checksum{}, err
	}
	return ChecksumFromCID(id)
}
