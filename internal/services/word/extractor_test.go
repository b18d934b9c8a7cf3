package word

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/doc-compare-api/internal/services/extract"
)

const documentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>%s</w:body>
</w:document>`

// writeTestDOCX writes a minimal DOCX archive whose body is bodyXML.
func writeTestDOCX(t *testing.T, dir, bodyXML string) string {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`,
		"word/document.xml": fmt.Sprintf(documentTemplate, bodyXML),
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for _, name := range []string{"[Content_Types].xml", "word/document.xml", "word/_rels/document.xml.rels"} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "test.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestExtract_Paragraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> world</w:t></w:r></w:p>` +
		`<w:p></w:p>` +
		`<w:p><w:r><w:t>Line</w:t><w:tab/><w:t>two</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>before</w:t><w:br/><w:t>after</w:t></w:r></w:p>` +
		`<w:p><w:del><w:r><w:delText>removed</w:delText></w:r></w:del><w:r><w:t>kept</w:t></w:r></w:p>`

	path := writeTestDOCX(t, t.TempDir(), body)

	text, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello world\nLine two\nbefore\nafter\nkept", text)
}

func TestExtract_EmptyDocument(t *testing.T) {
	path := writeTestDOCX(t, t.TempDir(), "")

	text, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtract_Failures(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "fake.docx")
	require.NoError(t, os.WriteFile(notZip, []byte("this is not a zip archive"), 0o600))

	tests := []struct {
		name string
		path string
		msg  string
	}{
		{"missing file", filepath.Join(dir, "nope.docx"), "does not exist"},
		{"not a docx", notZip, "valid .docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.path)
			require.Error(t, err)

			var extErr *extract.Error
			require.ErrorAs(t, err, &extErr)
			assert.Equal(t, extract.WordParseFailure, extErr.Kind)
			assert.Equal(t, tt.path, extErr.Path)
			assert.Contains(t, extErr.Message, tt.msg)
		})
	}
}

func TestParagraphText_MalformedXML(t *testing.T) {
	_, err := paragraphText("<document><body><p></body></document>")
	assert.Error(t, err)
}
