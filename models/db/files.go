package dbmodels

type FileStorage struct {
	BaseModel
	Name        string `gorm:"type:varchar(255)"`
	ObjectKey   string `gorm:"type:varchar(512);uniqueIndex"`
	OwnerRef    string `gorm:"type:varchar(255);index"`
	Type        FileType
	ContentType string `gorm:"type:varchar(255)"`
	Size        int64
}

type FileType string

const (
	CandidateResume   FileType = "candidate_resume"
	GeneratedDocument FileType = "generated_document"
	AttritionExport   FileType = "attrition_export"
)

type UploadFileInfo struct {
	OwnerRef    string
	FileName    string
	FileType    FileType
	ContentType string
}
