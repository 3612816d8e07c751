package dto

type FileUploadResponse struct {
	FileName string `json:"fileName"`
	FileUrl  string `json:"fileUrl"`
}
