package models

// DefaultUserID scopes all persisted data; the ledger has a single local user.
const DefaultUserID = "default_clarity_user"

// Language selects the language the AI collaborator answers in.
type Language string

const (
	LanguageEnglish            Language = "en"
	LanguageTraditionalChinese Language = "zh-TW"
)

// IsValid reports whether l is a supported language.
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageTraditionalChinese
}
