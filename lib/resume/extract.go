package resume

import (
	"bytes"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/pkg/errors"
)

var ErrUnsupportedFile = errors.New("unsupported resume file type")

// ExtractText returns the plain text of an uploaded resume.
func ExtractText(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".txt", ".md":
		return string(data), nil
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(fileName), false)
		if err != nil {
			return "", errors.Wrapf(err, "convert %s", fileName)
		}
		return res.Body, nil
	}
	return "", errors.Wrap(ErrUnsupportedFile, ext)
}
