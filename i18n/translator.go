package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "min" or "max").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":           "invalid type",
		"required":               "required property missing",
		"null":                   "may not be null",
		"blank":                  "may not be blank",
		"empty":                  "may not be empty",
		"unknown_key":            "unknown key",
		"too_small":              "must be at least {min}",
		"too_big":                "must be at most {max}",
		"too_short":              "too short",
		"too_long":               "too long",
		"invalid_enum":           "not a valid choice",
		"invalid_format":         "invalid format",
		"overflow":               "numeric overflow",
		"parse_error":            "parse error",
		"custom":                 "custom validation failed",
		"dependency_unavailable": "required service not provided",
	},
	"ja": {
		"invalid_type":           "型が不正です",
		"required":               "必須プロパティが不足しています",
		"null":                   "null は許可されていません",
		"blank":                  "空文字は許可されていません",
		"empty":                  "空のリストは許可されていません",
		"unknown_key":            "未知のキーです",
		"too_small":              "{min} 以上である必要があります",
		"too_big":                "{max} 以下である必要があります",
		"too_short":              "短すぎます",
		"too_long":               "長すぎます",
		"invalid_enum":           "選択肢にない値です",
		"invalid_format":         "形式が不正です",
		"overflow":               "数値がオーバーフローしました",
		"parse_error":            "解析エラー",
		"custom":                 "カスタム検証に失敗しました",
		"dependency_unavailable": "必要なサービスが提供されていません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
