package extract

import (
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MetadataReader extracts the document information dictionary.
type MetadataReader struct{}

// NewMetadataReader creates a metadata reader.
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Read extracts metadata from a document. Individual missing fields are not
// errors; only a completely unreadable file is.
func (m *MetadataReader) Read(path string) (*DocumentMetadata, error) {
	meta := &DocumentMetadata{}

	// Version and encryption status come from pdfcpu.
	if err := m.readStructural(path, meta); err != nil {
		return nil, err
	}

	// Info dictionary fields come from the text-extraction library; the
	// call is best-effort and panics inside the library are contained.
	m.readInfoDict(path, meta)

	return meta, nil
}

func (m *MetadataReader) readStructural(path string, meta *DocumentMetadata) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return err
	}

	meta.Version = ctx.HeaderVersion.String()
	meta.Encrypted = ctx.Encrypt != nil
	return nil
}

func (m *MetadataReader) readInfoDict(path string, meta *DocumentMetadata) {
	defer func() {
		_ = recover() // a damaged info dict must not abort metadata reading
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	trailer := r.Trailer()
	if trailer.IsNull() {
		return
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return
	}

	meta.Title = infoString(info, "Title")
	meta.Author = infoString(info, "Author")
	meta.Subject = infoString(info, "Subject")
	meta.Creator = infoString(info, "Creator")
	meta.Producer = infoString(info, "Producer")
	meta.CreationDate = infoString(info, "CreationDate")
	meta.ModificationDate = infoString(info, "ModDate")

	if kw := infoString(info, "Keywords"); kw != "" {
		meta.Keywords = splitKeywords(kw)
	}
}

func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// splitKeywords splits a keywords string on the separators found in the wild.
func splitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})

	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			keywords = append(keywords, f)
		}
	}
	return keywords
}
