package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	SuccessEntrySave   = NewSuss(101, lang{en: "Diary entry saved!", zh_cn: "日记已保存！"})
	SuccessFontSizeSet = NewSuss(102, lang{en: "Font size saved", zh_cn: "字号已保存"})

	Failed              = NewError(500, http.StatusInternalServerError, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal = NewError(501, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorInvalidParams  = NewError(502, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorNotFound       = NewError(504, http.StatusNotFound, lang{en: "Resource not found", zh_cn: "资源不存在"})

	ErrorInvalidDate        = NewError(510, http.StatusBadRequest, lang{en: "Invalid diary date", zh_cn: "日记日期无效"})
	ErrorEntrySave          = NewError(511, http.StatusInternalServerError, lang{en: "Failed to save diary entry", zh_cn: "日记保存失败"})
	ErrorEntryRead          = NewError(512, http.StatusInternalServerError, lang{en: "Failed to read diary entry", zh_cn: "日记读取失败"})
	ErrorEntryNotFound      = NewError(513, http.StatusNotFound, lang{en: "No diary entry for this date", zh_cn: "该日期没有日记"})
	ErrorEntryList          = NewError(514, http.StatusInternalServerError, lang{en: "Failed to list diary entries", zh_cn: "日记列表获取失败"})
	ErrorSettingSave        = NewError(520, http.StatusInternalServerError, lang{en: "Failed to save setting", zh_cn: "设置保存失败"})
	ErrorInvalidStorageType = NewError(530, http.StatusInternalServerError, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"})
	ErrorStorageDisabled    = NewError(531, http.StatusInternalServerError, lang{en: "Storage backend is disabled", zh_cn: "存储后端未启用"})
	ErrorBackupFailed       = NewError(540, http.StatusInternalServerError, lang{en: "Backup failed", zh_cn: "备份失败"})
	ErrorBackupDisabled     = NewError(541, http.StatusServiceUnavailable, lang{en: "Backup is not enabled", zh_cn: "备份未启用"})
)
