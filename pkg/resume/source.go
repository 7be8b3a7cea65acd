package resume

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/pkg/errors"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// DocsScope is the read-only Google Docs scope.
const DocsScope = docs.DocumentsReadonlyScope

// Fetcher returns the plain text of the resume document with the given id.
type Fetcher interface {
	FetchText(ctx context.Context, id string) (text string, err error)
}

// GoogleDocs reads resumes from Google Docs.
type GoogleDocs struct {
	service *docs.Service
}

// NewGoogleDocs creates a Google Docs fetcher.
func NewGoogleDocs(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (fetcher *GoogleDocs, err error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	var srv *docs.Service
	srv, err = docs.NewService(ctx, opts...)
	if err != nil {
		err = errors.Wrap(err, "unable to create Docs client")
		return fetcher, err
	}

	fetcher = &GoogleDocs{service: srv}

	return fetcher, err
}

// FetchText downloads the document and flattens it to text.
func (g *GoogleDocs) FetchText(ctx context.Context, id string) (text string, err error) {
	var doc *docs.Document
	doc, err = g.service.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		err = errors.Wrapf(err, "unable to retrieve document %s", id)
		return text, err
	}

	text = DocumentText(doc)

	return text, err
}

// DocumentText concatenates the text runs of every paragraph in the body.
func DocumentText(doc *docs.Document) (text string) {
	if doc == nil || doc.Body == nil {
		return text
	}

	var sb strings.Builder
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, pe := range element.Paragraph.Elements {
			if pe.TextRun != nil {
				sb.WriteString(pe.TextRun.Content)
			}
		}
	}

	text = sb.String()

	return text
}

// LocalFile reads resumes from disk. The id is a file path.
// Plain text and markdown are read as is; anything else goes through docconv.
type LocalFile struct{}

// FetchText reads and converts the file at path.
func (LocalFile) FetchText(ctx context.Context, path string) (text string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read resume file: %s", path)
			return text, err
		}
		text = string(data)
		return text, err
	}

	var res *docconv.Response
	res, err = docconv.ConvertPath(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to convert resume file: %s", path)
		return text, err
	}

	text = res.Body

	return text, err
}
