package dto

// FontSizeRequest 设置字号请求参数，范围与界面滑块一致
type FontSizeRequest struct {
	FontSize int `json:"fontSize" form:"fontSize" binding:"required,min=12,max=30"`
}

// FontSizeDTO 字号响应
type FontSizeDTO struct {
	FontSize int `json:"fontSize"`
}
