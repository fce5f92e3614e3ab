package dto

// HealthDTO 健康检查响应
type HealthDTO struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
	Version  string `json:"version"`
}

// BackupDTO 手动备份响应
type BackupDTO struct {
	ID      string `json:"id"`
	FileKey string `json:"fileKey"`
	Entries int    `json:"entries"`
	Size    int    `json:"size"`
}
