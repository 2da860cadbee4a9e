package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdrive/internal/provenance"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeScenario(t *testing.T, dir, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func carbonScenario(referenceFile string) string {
	return fmt.Sprintf(`domain: carbon
seed: 42
days: 2
entities: 3
currency: GBP
reference_file: %s
activity_prob: 1.0
min_amount: 100
max_amount: 200
idem_prefix: mrv
`, referenceFile)
}

// mockLedger implements the ledger service contract with sequential ids.
type mockLedger struct {
	mu       sync.Mutex
	accounts int
	txs      int
	requests int
}

func (m *mockLedger) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.requests++

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/accounts":
			m.accounts++
			json.NewEncoder(w).Encode(map[string]string{
				"account_id": fmt.Sprintf("acct-%d", m.accounts),
			})
		case "/v1/tx/mint", "/v1/tx/transfer":
			m.txs++
			json.NewEncoder(w).Encode(map[string]string{
				"tx_id": fmt.Sprintf("tx-%d", m.txs),
			})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestPlanCommand_Text(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeScenario(t, dir, carbonScenario(filepath.Join(dir, "absent.xlsx")))

	out, err := executeCommand(t, "plan", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "create_account")
	assert.Contains(t, out, "mrv:acct:sink")
	assert.Contains(t, out, "mrv:mint:bootstrap")
	// 2 system accounts + bootstrap + 3 orgs + 3 seeds + 6 emissions.
	assert.Contains(t, out, "15 operations")
}

func TestPlanCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeScenario(t, dir, carbonScenario(filepath.Join(dir, "absent.xlsx")))

	out, err := executeCommand(t, "plan", cfgPath, "--format", "json")
	require.NoError(t, err)

	var ops []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &ops))
	assert.Len(t, ops, 15)
	assert.Equal(t, "create_account", ops[0]["kind"])
}

func TestPlanCommand_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeScenario(t, dir, "domain: forex\n")

	_, err := executeCommand(t, "plan", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDigestCommand(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.csv")
	require.NoError(t, os.WriteFile(ref, []byte("rate,value\n"), 0o644))

	out, err := executeCommand(t, "digest", ref)
	require.NoError(t, err)

	want, err := provenance.DigestFile(ref)
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out))
}

func TestDigestCommand_Missing(t *testing.T) {
	out, err := executeCommand(t, "digest", filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Equal(t, provenance.Missing, strings.TrimSpace(out))
}

func TestRunCommand_EndToEnd(t *testing.T) {
	mock := &mockLedger{}
	srv := httptest.NewServer(mock.handler())
	defer srv.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	cfgPath := writeScenario(t, dir, carbonScenario(filepath.Join(dir, "absent.xlsx")))

	out, err := executeCommand(t, "run", cfgPath,
		"--ledger-url", srv.URL,
		"--out-dir", outDir,
		"--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	// The full deterministic sequence reached the ledger.
	assert.Equal(t, 15, mock.requests)
	assert.Equal(t, 5, mock.accounts)

	// Manifest written before submissions, sentinel for the missing file.
	manifest, err := os.ReadFile(filepath.Join(outDir, provenance.ManifestName))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "reference_file_sha256=<missing>")

	// Journaled run verifies against its own config.
	vOut, err := executeCommand(t, "verify", cfgPath,
		"--journal", filepath.Join(outDir, "journal.db"))
	require.NoError(t, err)
	assert.Contains(t, vOut, "15 operations match")
}

func TestRunCommand_LedgerErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	cfgPath := writeScenario(t, dir, carbonScenario(filepath.Join(dir, "absent.xlsx")))

	_, err := executeCommand(t, "run", cfgPath,
		"--ledger-url", srv.URL,
		"--out-dir", outDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// The manifest is an independent artifact: written despite the abort.
	_, statErr := os.Stat(filepath.Join(outDir, provenance.ManifestName))
	assert.NoError(t, statErr)
}

func TestVerifyCommand_DivergenceFails(t *testing.T) {
	mock := &mockLedger{}
	srv := httptest.NewServer(mock.handler())
	defer srv.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	cfgPath := writeScenario(t, dir, carbonScenario(filepath.Join(dir, "absent.xlsx")))

	_, err := executeCommand(t, "run", cfgPath,
		"--ledger-url", srv.URL,
		"--out-dir", outDir)
	require.NoError(t, err)

	// Same journal, different seed: must diverge.
	otherCfg := writeScenario(t, filepath.Join(dir, "other"), strings.Replace(
		carbonScenario(filepath.Join(dir, "absent.xlsx")), "seed: 42", "seed: 7", 1))

	_, err = executeCommand(t, "verify", otherCfg,
		"--journal", filepath.Join(outDir, "journal.db"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "diverges")
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := executeCommand(t, "digest", "whatever", "--format", "xml")
	require.Error(t, err)
}
