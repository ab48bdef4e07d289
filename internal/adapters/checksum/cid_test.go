package checksum

import (
	"crypto/sha256"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/checksum/internal/core/domain"
)

func TestCIDMatchesContentAddressing(t *testing.T) {
	content := []byte(knownContent)

	mh, err := multihash.Sum(content, multihash.SHA2_256, -1)
	require.NoError(t, err)
	want := cid.NewCidV1(cid.Raw, mh)

	got, err := CID(domain.Checksum(sha256.Sum256(content)))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, want.String(), got.String())
}

func TestChecksumFromCID(t *testing.T) {
	sum := domain.Checksum(sha256.Sum256([]byte(knownContent)))

	id, err := CID(sum)
	require.NoError(t, err)

	back, err := ChecksumFromCID(id)
	require.NoError(t, err)
	require.Equal(t, sum, back)

	parsed, err := cid.Decode(id.String())
	require.NoError(t, err)
	back, err = ChecksumFromCID(parsed)
	require.NoError(t, err)
	require.Equal(t, sum, back)
}

func TestParseCID(t *testing.T) {
	sum := domain.Checksum(sha256.Sum256([]byte(knownContent)))
	id, err := CID(sum)
	require.NoError(t, err)

	base58, err := id.StringOfBase(multibase.Base58BTC)
	require.NoError(t, err)

	for _, encoded := range []string{id.String(), base58} {
		back, err := ParseCID(encoded)
		require.NoError(t, err)
		require.Equal(t, sum, back)
	}

	_, err = ParseCID(sum.Hex())
	require.Error(t, err)
	_, err = ParseCID("bafkrei")
	require.Error(t, err)
}

func TestChecksumFromCIDRejectsOtherHashes(t *testing.T) {
	mh, err := multihash.Sum([]byte(knownContent), multihash.SHA2_512, -1)
	require.NoError(t, err)

	_, err = ChecksumFromCID(cid.NewCidV1(cid.Raw, mh))
	require.Error(t, err)

	_, err = ChecksumFromCID(cid.Undef)
	require.Error(t, err)
}
