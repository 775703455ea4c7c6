package cli

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	jsoniter "github.com/json-iterator/go"
	"github.com/ralt/metalinker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pieceLength = 1024

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// run executes the root command and returns what it printed on stdout
func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type fixture struct {
	dir      string
	payload  string
	meta4    string
	metalink string
	keyring  string
	data     []byte
}

func sha1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// newFixture writes a payload, a signing key and Metalink 3.0 and 4.0
// documents describing the payload
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:      dir,
		payload:  filepath.Join(dir, "distro.iso"),
		meta4:    filepath.Join(dir, "distro.iso.meta4"),
		metalink: filepath.Join(dir, "distro.iso.metalink"),
		keyring:  filepath.Join(dir, "release.asc"),
		data:     bytes.Repeat([]byte("0123456789abcdef"), 200),
	}
	require.NoError(t, os.WriteFile(f.payload, f.data, 0644))

	entity, err := openpgp.NewEntity("Distro Release", "", "release@example.org", &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	require.NoError(t, err)

	var key bytes.Buffer
	w, err := armor.Encode(&key, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(f.keyring, key.Bytes(), 0644))

	var sig bytes.Buffer
	require.NoError(t, openpgp.ArmoredDetachSign(&sig, entity, bytes.NewReader(f.data), nil))

	sha256Sum := sha256.Sum256(f.data)
	var pieces strings.Builder
	for start := 0; start < len(f.data); start += pieceLength {
		end := min(start+pieceLength, len(f.data))
		fmt.Fprintf(&pieces, "<hash>%s</hash>", sha1Hex(f.data[start:end]))
	}

	meta4 := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<metalink xmlns="urn:ietf:params:xml:ns:metalink">
  <generator>metalinker-test</generator>
  <origin dynamic="true">https://mirrors.example.org/distro.iso.meta4</origin>
  <file name="distro.iso">
    <size>%d</size>
    <hash type="sha-256">%s</hash>
    <signature mediatype="application/pgp-signature">%s</signature>
    <pieces length="%d" type="sha-1">%s</pieces>
    <url location="de" priority="1">https://de.example.org/distro.iso</url>
    <url location="us" priority="2">ftp://us.example.org/distro.iso</url>
    <url location="de" priority="3">http://de2.example.org/distro.iso</url>
  </file>
</metalink>
`, len(f.data), hex.EncodeToString(sha256Sum[:]), sig.String(), pieceLength, pieces.String())
	require.NoError(t, os.WriteFile(f.meta4, []byte(meta4), 0644))

	metalink := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<metalink version="3.0" xmlns="http://www.metalinker.org/" generator="metalinker-test">
  <files>
    <file name="distro.iso">
      <size>%d</size>
      <verification>
        <hash type="sha1">%s</hash>
        <pieces length="%d" type="sha1">%s</pieces>
      </verification>
      <resources>
        <url type="http" location="se" preference="100">http://se.example.org/distro.iso</url>
      </resources>
    </file>
  </files>
</metalink>
`, len(f.data), sha1Hex(f.data), pieceLength, pieces.String())
	require.NoError(t, os.WriteFile(f.metalink, []byte(metalink), 0644))

	return f
}

func TestParseJSON(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "parse", "-o", "json", f.meta4)
	require.NoError(t, err)

	var ml models.Metalink
	require.NoError(t, json.Unmarshal([]byte(out), &ml))
	assert.Equal(t, "metalinker-test", ml.Generator)
	assert.True(t, ml.Dynamic)
	require.Len(t, ml.Files, 1)
	assert.Equal(t, int64(len(f.data)), ml.Files[0].Size)
	assert.Len(t, ml.Files[0].Resources, 3)
	assert.Equal(t, "distro.iso.asc", ml.Files[0].Signatures[0].SignatureFile)
}

func TestParseText(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "parse", f.metalink)
	require.NoError(t, err)
	assert.Contains(t, out, "Generator:    metalinker-test\n")
	assert.Contains(t, out, "File: distro.iso\n")
	assert.Contains(t, out, "  Pieces:     4 x 1024 bytes (sha1)\n")
}

func TestParseStdin(t *testing.T) {
	f := newFixture(t)
	doc, err := os.ReadFile(f.meta4)
	require.NoError(t, err)

	out, err := run(t, bytes.NewReader(doc), "parse", "-o", "yaml", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "generator: metalinker-test\n")
}

func TestParseOutputFile(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.dir, "reports", "distro.json")

	out, err := run(t, nil, "parse", "-o", "json", "-f", target, f.meta4)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file": "distro.iso"`)
}

func TestParseErrors(t *testing.T) {
	f := newFixture(t)

	_, err := run(t, nil, "parse", filepath.Join(f.dir, "missing.meta4"))
	require.Error(t, err)
	assert.True(t, models.IsErrorType(err, models.ErrNotFound))

	_, err = run(t, nil, "parse", f.payload)
	assert.ErrorIs(t, err, models.ErrInvalidExtension)

	_, err = run(t, nil, "parse", "-o", "xml", f.meta4)
	assert.Error(t, err)
}

func TestMirrors(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "mirrors", "--location", "DE", f.meta4)
	require.NoError(t, err)
	assert.Contains(t, out, "https://de.example.org/distro.iso")
	assert.Contains(t, out, "http://de2.example.org/distro.iso")
	assert.NotContains(t, out, "ftp://us.example.org/distro.iso")
	assert.Contains(t, out, "2 mirrors (de=2)")

	out, err = run(t, nil, "mirrors", "-o", "json", "-t", "ftp", f.meta4)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"file":"distro.iso","url":"ftp://us.example.org/distro.iso","type":"ftp","location":"us","preference":2}]`, out)
}

func TestMirrorsUsesConfigDefaults(t *testing.T) {
	f := newFixture(t)
	cfg := filepath.Join(f.dir, "metalinker.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output: json\ntype: http\n"), 0644))

	out, err := run(t, nil, "--config", cfg, "mirrors", f.meta4)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"file":"distro.iso","url":"http://de2.example.org/distro.iso","type":"http","location":"de","preference":3}]`, out)

	// Flags override the config
	out, err = run(t, nil, "--config", cfg, "mirrors", "-o", "text", "-t", "https", f.meta4)
	require.NoError(t, err)
	assert.Contains(t, out, "1 mirrors (de=1)")
}

func TestMissingExplicitConfig(t *testing.T) {
	f := newFixture(t)

	_, err := run(t, nil, "--config", filepath.Join(f.dir, "nope.yaml"), "parse", f.meta4)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "verify", "--keyring", f.keyring, f.meta4, f.payload)
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("size     OK (%d bytes, expected %d)\n", len(f.data), len(f.data)))
	assert.Contains(t, out, "sha-256  OK\n")
	assert.Contains(t, out, "pieces   OK (4 checked, 0 bad)\n")
	assert.Contains(t, out, "signature distro.iso.asc OK (Distro Release")

	out, err = run(t, nil, "verify", f.metalink, f.payload)
	require.NoError(t, err)
	assert.Contains(t, out, "sha1     OK\n")
}

func TestVerifyCorrupted(t *testing.T) {
	f := newFixture(t)
	corrupted := bytes.Clone(f.data)
	corrupted[pieceLength+1] = 'X'
	require.NoError(t, os.WriteFile(f.payload, corrupted, 0644))

	out, err := run(t, nil, "verify", "--keyring", f.keyring, f.meta4, f.payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification of")
	assert.Contains(t, out, "sha-256  FAILED\n")
	assert.Contains(t, out, "pieces   FAILED (4 checked, 1 bad)\n")
	assert.Contains(t, out, "  piece 1 bytes [1024, 2048)\n")
	assert.Contains(t, out, "signature distro.iso.asc FAILED")
}

func TestVerifyUnknownEntry(t *testing.T) {
	f := newFixture(t)

	_, err := run(t, nil, "verify", "--name", "other.iso", f.meta4, f.payload)
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	f := newFixture(t)
	broken := filepath.Join(f.dir, "nested", "broken.meta4")
	require.NoError(t, os.MkdirAll(filepath.Dir(broken), 0755))
	require.NoError(t, os.WriteFile(broken, []byte(`<metalink version="2.0" type="static"/>`), 0644))
	empty := filepath.Join(f.dir, "nested", "empty.metalink")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	out, err := run(t, nil, "scan", "-o", "json", f.dir)
	require.Error(t, err)
	assert.Equal(t, "2 of 4 metalink files failed to parse", err.Error())

	var entries []scanEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 4)

	byPath := make(map[string]scanEntry)
	for _, e := range entries {
		byPath[e.Path] = e
	}
	assert.Equal(t, 3, byPath[f.meta4].Resources)
	assert.Equal(t, "meta4", byPath[f.meta4].Type)
	assert.Equal(t, 1, byPath[f.metalink].Files)
	assert.Equal(t, "metalink", byPath[f.metalink].Type)
	assert.Contains(t, byPath[broken].Error, models.ErrInvalidVersion3.Error())
	assert.Equal(t, "metalink", byPath[empty].Type)
	assert.Contains(t, byPath[empty].Error, models.ErrNotMetalink.Error())
}

func TestScanClean(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.metalink))

	out, err := run(t, nil, "scan", f.dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "PATH"))
	assert.Contains(t, out, f.meta4)
}
