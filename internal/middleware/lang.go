package middleware

import (
	"strings"

	"github.com/haierkeys/fast-diary/pkg/code"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
)

// LangWithTranslator 根据 ?lang= 或 lang 请求头选择校验翻译器和响应语言
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}

		lang = strings.ToLower(strings.ReplaceAll(lang, "-", "_"))

		// 翻译器的语言名为 zh，响应文本为 zh_cn
		transLang := lang
		if strings.HasPrefix(transLang, "zh") {
			transLang = "zh"
		}

		trans, found := uni.GetTranslator(transLang)
		if !found {
			trans, _ = uni.GetTranslator("en")
		}
		c.Set("trans", trans)

		if lang != "" {
			_ = code.SetGlobalDefaultLang(lang)
		}

		c.Next()
	}
}
