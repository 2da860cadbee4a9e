package provenance

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func refDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestDigestFile_Empty(t *testing.T) {
	path := writeTemp(t, nil)

	got, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, refDigest(nil), got)
}

func TestDigestFile_OneByte(t *testing.T) {
	path := writeTemp(t, []byte{0x42})

	got, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, refDigest([]byte{0x42}), got)
}

func TestDigestFile_MultiChunk(t *testing.T) {
	// Spans more than one chunk boundary to exercise the streaming path.
	data := bytes.Repeat([]byte("ledgerdrive"), (chunkSize/11)*2+5)
	require.Greater(t, len(data), 2*chunkSize)
	path := writeTemp(t, data)

	got, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, refDigest(data), got)
	assert.Len(t, got, 64)
}

func TestDigestFile_MissingSentinel(t *testing.T) {
	got, err := DigestFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, Missing, got)
}

func TestBind_PopulatesRecord(t *testing.T) {
	path := writeTemp(t, []byte("factor table"))

	rec, err := Bind("factors_uk_flat_xlsx", path)
	require.NoError(t, err)
	assert.Equal(t, "factors_uk_flat_xlsx", rec.Key)
	assert.Equal(t, path, rec.Path)
	assert.Equal(t, refDigest([]byte("factor table")), rec.Digest)
}

func TestWriteManifest_Contents(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out", "nested")
	rec := Record{Key: "rates_fedfunds_csv", Path: "/data/rates.csv", Digest: "abc123"}

	require.NoError(t, rec.WriteManifest(outDir))

	body, err := os.ReadFile(filepath.Join(outDir, ManifestName))
	require.NoError(t, err)
	assert.Equal(t,
		"rates_fedfunds_csv=/data/rates.csv\nrates_fedfunds_csv_sha256=abc123\n",
		string(body))
}

func TestWriteManifest_MissingFileStillWrites(t *testing.T) {
	outDir := t.TempDir()
	rec, err := Bind("reference_file", filepath.Join(outDir, "absent.csv"))
	require.NoError(t, err)
	require.NoError(t, rec.WriteManifest(outDir))

	body, err := os.ReadFile(filepath.Join(outDir, ManifestName))
	require.NoError(t, err)
	assert.Contains(t, string(body), "reference_file_sha256=<missing>\n")
}
