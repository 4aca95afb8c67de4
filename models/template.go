package models

// LetterData is everything the PDF renderer puts on a generated HR document.
type LetterData struct {
	CompanyName    string
	CompanyContact string
	Title          string
	RecipientName  string
	IssuedAt       string
	Body           string
	Files          LetterFiles
}

type LetterFiles struct {
	Logo *File
	Sign *File
}

type File struct {
	FileName    string
	ContentType string
	Body        []byte
}
