// Package provenance binds external reference data into a run's audit trail.
//
// The core never interprets reference datasets (emission-factor tables,
// interest-rate CSVs); it only records which exact bytes were nominally
// associated with a run. The digest of the file is written to a key=value
// manifest before any ledger operation and never amended afterward, so an
// auditor can later verify precisely which version of the reference data a
// scenario claimed to use.
package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Missing is the digest sentinel recorded when the reference file does not
// exist. A missing reference is deliberate non-fatal: the run proceeds, and
// the manifest makes the absence auditable.
const Missing = "<missing>"

// ManifestName is the file written into the output directory.
const ManifestName = "inputs.txt"

// chunkSize bounds digest memory regardless of file size.
const chunkSize = 1 << 20

// DigestFile streams the file through SHA-256 in fixed-size chunks and
// returns the lowercase hex digest. A nonexistent path returns Missing with
// a nil error; any other I/O failure is returned as an error.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Missing, nil
		}
		return "", fmt.Errorf("provenance: open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("provenance: digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Record is the immutable provenance of one reference file. Key is the
// manifest key base (e.g. "factors_uk_flat_xlsx"); the digest line appends
// "_sha256" to it.
type Record struct {
	Key    string
	Path   string
	Digest string
}

// Bind digests the reference file at path and returns its Record. The key
// names the reference in the manifest.
func Bind(key, path string) (Record, error) {
	digest, err := DigestFile(path)
	if err != nil {
		return Record{}, err
	}
	return Record{Key: key, Path: path, Digest: digest}, nil
}

// WriteManifest persists the record as key=value lines under outDir,
// creating the directory if needed. Called once at run start; the manifest
// is an independent artifact and is not rewritten on later failure.
func (r Record) WriteManifest(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("provenance: create output dir: %w", err)
	}
	body := fmt.Sprintf("%s=%s\n%s_sha256=%s\n", r.Key, r.Path, r.Key, r.Digest)
	dest := filepath.Join(outDir, ManifestName)
	if err := os.WriteFile(dest, []byte(body), 0o644); err != nil {
		return fmt.Errorf("provenance: write manifest: %w", err)
	}
	return nil
}
