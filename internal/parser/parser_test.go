package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElement is an in-memory xmltree.Element
type fakeElement struct {
	name     string
	attrs    []xmltree.Attr
	children []*fakeElement
	text     string
}

func (f *fakeElement) Name() string { return f.name }
func (f *fakeElement) Attrs() []xmltree.Attr { return f.attrs }
func (f *fakeElement) Text() string { return f.text }

func (f *fakeElement) Attr(name string) (string, bool) {
	for _, a := range f.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (f *fakeElement) Child(name string) (xmltree.Element, bool) {
	for _, c := range f.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (f *fakeElement) Children(name string) []xmltree.Element {
	var out []xmltree.Element
	for _, c := range f.children {
		if name == "" || c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// stubExtractor records calls and returns a fixed result
type stubExtractor struct {
	version models.MetalinkVersion
	result  *models.Metalink
	err     error
	calls   int
}

func (s *stubExtractor) Extract(root xmltree.Element) (*models.Metalink, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubExtractor) GetSupportedVersion() models.MetalinkVersion {
	return s.version
}

func parseRoot(t *testing.T, doc string) xmltree.Element {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		version models.MetalinkVersion
		reason  error
	}{
		{
			name:    "metalink 3.0",
			doc:     `<metalink version="3.0" xmlns="http://www.metalinker.org/"/>`,
			version: models.VersionThree,
		},
		{
			name:    "metalink 3.0 without namespace",
			doc:     `<metalink version="3.0" type="static"/>`,
			version: models.VersionThree,
		},
		{
			name:    "metalink 4.0",
			doc:     `<metalink xmlns="urn:ietf:params:xml:ns:metalink"/>`,
			version: models.VersionFour,
		},
		{
			name:   "wrong root",
			doc:    `<feed xmlns="http://www.w3.org/2005/Atom"/>`,
			reason: models.ErrNotMetalink,
		},
		{
			name:   "two attributes with wrong version",
			doc:    `<metalink version="4.0" xmlns="http://www.metalinker.org/"/>`,
			reason: models.ErrInvalidVersion3,
		},
		{
			name:   "two attributes without version",
			doc:    `<metalink type="dynamic" xmlns="http://www.metalinker.org/"/>`,
			reason: models.ErrInvalidVersion3,
		},
		{
			name:   "single attribute is not xmlns",
			doc:    `<metalink version="3.0"/>`,
			reason: models.ErrInvalidVersion4,
		},
		{
			name:   "namespace without metalink",
			doc:    `<metalink xmlns="urn:example:downloads"/>`,
			reason: models.ErrInvalidVersion4,
		},
		{
			name:   "no attributes",
			doc:    `<metalink><file name="a"/></metalink>`,
			reason: models.ErrUnknownVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := DetectVersion(parseRoot(t, tt.doc))
			if tt.reason != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.reason)
				assert.True(t, models.IsErrorType(err, models.ErrFormat), "expected Format error, got %v", err)
				assert.Equal(t, models.VersionUnknown, version)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, version)
		})
	}
}

func TestDetectVersionIgnoresDescendants(t *testing.T) {
	root := &fakeElement{
		name:  "metalink",
		attrs: []xmltree.Attr{{Name: "xmlns", Value: "urn:ietf:params:xml:ns:metalink"}},
		children: []*fakeElement{
			{name: "files", children: []*fakeElement{{name: "file"}}},
			{name: "metalink", attrs: []xmltree.Attr{{Name: "version", Value: "3.0"}, {Name: "type", Value: "dynamic"}}},
		},
	}

	version, err := DetectVersion(root)
	require.NoError(t, err)
	assert.Equal(t, models.VersionFour, version)

	_, err = DetectVersion(nil)
	assert.ErrorIs(t, err, models.ErrNotMetalink)
}

func TestDispatcherRoutesByVersion(t *testing.T) {
	three := &stubExtractor{version: models.VersionThree, result: &models.Metalink{Generator: "three"}}
	four := &stubExtractor{version: models.VersionFour, result: &models.Metalink{Generator: "four"}}
	d := NewDispatcher(three, four)

	ml, err := d.Parse(parseRoot(t, `<metalink version="3.0" xmlns="http://www.metalinker.org/"/>`))
	require.NoError(t, err)
	assert.Equal(t, "three", ml.Generator)

	ml, err = d.Parse(parseRoot(t, `<metalink xmlns="urn:ietf:params:xml:ns:metalink"/>`))
	require.NoError(t, err)
	assert.Equal(t, "four", ml.Generator)

	assert.Equal(t, 1, three.calls)
	assert.Equal(t, 1, four.calls)
}

func TestDispatcherPropagatesExtractorError(t *testing.T) {
	want := models.NewStructuralError("file", models.ErrNoPieces)
	four := &stubExtractor{version: models.VersionFour, err: want}
	d := NewDispatcher(four)

	ml, err := d.Parse(parseRoot(t, `<metalink xmlns="urn:ietf:params:xml:ns:metalink"/>`))
	assert.Nil(t, ml)

	var got *models.MetalinkError
	require.True(t, errors.As(err, &got))
	assert.Same(t, want, got)
}

func TestDispatcherWithoutExtractor(t *testing.T) {
	d := NewDispatcher(&stubExtractor{version: models.VersionFour})

	_, err := d.Parse(parseRoot(t, `<metalink version="3.0" xmlns="http://www.metalinker.org/"/>`))
	assert.ErrorIs(t, err, models.ErrUnknownVersion)
}

func TestParsePieces(t *testing.T) {
	pieces := parseRoot(t, `<pieces length="262144" type="sha1"><hash>aa</hash><hash>bb</hash><hash>cc</hash></pieces>`)

	info, err := ParsePieces(pieces)
	require.NoError(t, err)
	assert.Equal(t, "sha1", info.Type)
	assert.Equal(t, int64(262144), info.Length)
	assert.Equal(t, []string{"aa", "bb", "cc"}, info.Hashes)

	start, end := info.PieceRange(2, 600000)
	assert.Equal(t, int64(524288), start)
	assert.Equal(t, int64(600000), end)

	for _, doc := range []string{
		`<pieces type="sha1"/>`,
		`<pieces length="abc" type="sha1"/>`,
		`<pieces length="0" type="sha1"/>`,
		`<pieces length="-5" type="sha1"/>`,
	} {
		_, err := ParsePieces(parseRoot(t, doc))
		assert.ErrorIs(t, err, models.ErrInvalidNumber, doc)
		assert.True(t, models.IsErrorType(err, models.ErrFormat), doc)
	}
}

func TestParseURI(t *testing.T) {
	u, err := ParseURI("url", "  https://mirrors.example.org/iso/a.iso\n")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "https://mirrors.example.org/iso/a.iso", u.String())

	for _, raw := range []string{"", "mirrors.example.org/a.iso", "/iso/a.iso", "http://[::1"} {
		_, err := ParseURI("url", raw)
		assert.ErrorIs(t, err, models.ErrInvalidURI, raw)
	}
}

func TestAttrInt(t *testing.T) {
	e := parseRoot(t, `<url preference="42" bad="4x"/>`)

	v, err := AttrInt(e, "preference")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = AttrInt(e, "priority")
	assert.ErrorIs(t, err, models.ErrInvalidNumber)
	assert.True(t, models.IsErrorType(err, models.ErrFormat))

	_, err = AttrInt(e, "bad")
	assert.ErrorIs(t, err, models.ErrInvalidNumber)
}
