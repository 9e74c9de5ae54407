package models

import "time"

// Translation is one completed translation. Rows are append-only; the core
// never mutates or deletes them.
type Translation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AccountID      uint      `gorm:"not null;index:idx_translations_account_created,priority:1" json:"account_id"`
	SourceText     string    `gorm:"type:text;not null" json:"source_text"`
	TranslatedText string    `gorm:"type:text;not null" json:"translated_text"`
	SourceLang     string    `gorm:"type:varchar(8);not null" json:"source_lang"`
	TargetLang     string    `gorm:"type:varchar(8);not null" json:"target_lang"`
	Model          string    `gorm:"type:varchar(64);default:''" json:"model"`
	TokensUsed     int       `gorm:"not null;default:0" json:"tokens_used"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_translations_account_created,priority:2" json:"created_at"`
}
