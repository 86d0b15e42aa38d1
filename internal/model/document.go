package model

// Document is a file attached to a patient. The client never derives anything
// from it beyond display formatting; upload, download and delete are delegated
// to the gateway.
type Document struct {
	ID         string `json:"id"`
	PatientID  string `json:"patientId"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	FileSize   int64  `json:"fileSize"`
	UploadDate string `json:"uploadDate,omitempty"`
}
