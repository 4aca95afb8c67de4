package pdfexport

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"hr-agent-backend/models"
)

var (
	emphasis = regexp.MustCompile(`\*\*|__|^#+\s*`)
	bullet   = regexp.MustCompile(`^\s*[\*\-]\s+`)
)

// plainLine drops the markdown the language model tends to wrap letters in.
func plainLine(line string) string {
	line = bullet.ReplaceAllString(line, "- ")
	return emphasis.ReplaceAllString(line, "")
}

// GenerateLetter renders a one-column A4 letter: header with the company, title, body and signature.
func GenerateLetter(data models.LetterData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateLetter panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(data.Title, true)
	pdf.SetAuthor(data.CompanyName, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if err = putImg(pdf, data.Files.Logo); err != nil {
		return nil, err
	}
	if err = putImg(pdf, data.Files.Sign); err != nil {
		return nil, err
	}

	left := 10.0
	if data.Files.Logo != nil {
		pdf.Image(data.Files.Logo.FileName, 10, 12, 30, 0, false, "", 0, "")
		left = 45
	}
	pdf.SetLeftMargin(left)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 7, tr(data.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if data.CompanyContact != "" {
		pdf.CellFormat(0, 5, tr(data.CompanyContact), "", 1, "L", false, 0, "")
	}
	pdf.SetLeftMargin(10)
	if pdf.GetY() < 45 {
		pdf.SetY(45)
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if data.IssuedAt != "" {
		pdf.CellFormat(0, 6, tr("Date: "+data.IssuedAt), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(strings.ReplaceAll(data.Body, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(plainLine(line), " ")
		if line == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 5.5, tr(line), "", "L", false)
	}

	if data.Files.Sign != nil {
		pageX, _ := pdf.GetPageSize()
		pdf.Image(data.Files.Sign.FileName, pageX-50, pdf.GetY()+10, 30, 0, false, "", 0, "")
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func putImg(pdf *fpdf.Fpdf, fileData *models.File) (err error) {
	if fileData == nil {
		return nil
	}
	options := fpdf.ImageOptions{}
	options.ImageType, err = GetImgType(fileData.FileName)
	if err != nil {
		return err
	}
	pdf.RegisterImageOptionsReader(fileData.FileName, options, bytes.NewReader(fileData.Body))
	return pdf.Error()
}

func GetImgType(fileName string) (string, error) {
	pos := strings.LastIndex(fileName, ".")
	if pos < 0 {
		return "", errors.Errorf("image file has no extension: %s", fileName)
	}
	return strings.ToLower(fileName[pos+1:]), nil
}
