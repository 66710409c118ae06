package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"
	LocaleTW = "zh-TW"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var (
	supportedTags = []language.Tag{
		language.AmericanEnglish,
		language.SimplifiedChinese,
		language.TraditionalChinese,
	}
	supportedLocales = []string{LocaleEN, LocaleZH, LocaleTW}
	matcher          = language.NewMatcher(supportedTags)
)

// ResolveLocale 解析请求语言
// 优先级：lang 查询参数 > X-Locale 请求头 > Accept-Language。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := strings.TrimSpace(c.Query("lang")); locale != "" {
		return NormalizeLocale(locale)
	}
	if locale := strings.TrimSpace(c.GetHeader("X-Locale")); locale != "" {
		return NormalizeLocale(locale)
	}
	if c.Request == nil {
		return DefaultLocale
	}
	return NormalizeLocale(c.GetHeader("Accept-Language"))
}

// NormalizeLocale 将任意语言标签匹配到支持的语言
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[index]
}

// T 翻译消息，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	catalog, ok := catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := catalog[key]
	return msg, ok
}
