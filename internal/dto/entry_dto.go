package dto

// EntryGetRequest 读取日记请求参数
type EntryGetRequest struct {
	Date string `json:"date" form:"date" binding:"required,datetime=2006-01-02"` // 日期 YYYY-MM-DD
}

// EntryPostRequest 保存日记请求参数
type EntryPostRequest struct {
	Date string `json:"date" form:"date" binding:"required,datetime=2006-01-02"` // 日期 YYYY-MM-DD
	Text string `json:"text" form:"text"`                                         // 日记全文，可为空
	// FontSize 可选，提供时与日记一同保存
	FontSize *int `json:"fontSize" form:"fontSize" binding:"omitempty,min=12,max=30"`
}

// EntryDTO 日记响应
type EntryDTO struct {
	Date  string `json:"date"`
	Text  string `json:"text"`
	Found bool   `json:"found"`
}
