package domain

// ManifestOptions configures manifest persistence.
type ManifestOptions struct {
	// Compression configures compression of manifest files written by Save.
	Compression *CompressionOptions
}

// ManifestEntry records the digest of one file beneath a manifest root.
type ManifestEntry struct {
	// Path is relative to the manifest root and always slash separated.
	Path string `json:"path"`

	// Size is the number of bytes hashed.
	Size int64 `json:"size"`

	// Checksum is the digest of the file content when the entry was recorded.
	Checksum Checksum `json:"checksum"`
}

// Manifest is an ordered list of digests for the regular files under Root.
type Manifest struct {
	Root    string          `json:"root"`
	Entries []ManifestEntry `json:"entries"`
}

// VerifyReport is the outcome of checking a Manifest against a directory.
type VerifyReport struct {
	OK         bool     `json:"ok"`
	Total      int      `json:"total"`
	Matched    int      `json:"matched"`
	Mismatched []string `json:"mismatched,omitempty"`
	Missing    []string `json:"missing,omitempty"`
}
