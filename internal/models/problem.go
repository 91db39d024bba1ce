package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Language is one of the fixed set of solution languages a problem can carry.
type Language string

const (
	LanguageJava Language = "java"
	LanguageC    Language = "c"
	LanguageCPP  Language = "cpp"
	LanguageJS   Language = "js"
)

// Languages lists every supported language key.
var Languages = []Language{LanguageJava, LanguageC, LanguageCPP, LanguageJS}

// Valid reports whether l is a supported language key.
func (l Language) Valid() bool {
	switch l {
	case LanguageJava, LanguageC, LanguageCPP, LanguageJS:
		return true
	}
	return false
}

// Column returns the database column holding the code for this language.
func (l Language) Column() string {
	return "code_" + string(l)
}

// CodeSet holds one solution snippet per supported language.
// All entries default to the empty string.
type CodeSet struct {
	Java string `gorm:"column:java;type:text" json:"java"`
	C    string `gorm:"column:c;type:text" json:"c"`
	CPP  string `gorm:"column:cpp;type:text" json:"cpp"`
	JS   string `gorm:"column:js;type:text" json:"js"`
}

// Get returns the snippet stored for a language.
func (cs CodeSet) Get(l Language) string {
	switch l {
	case LanguageJava:
		return cs.Java
	case LanguageC:
		return cs.C
	case LanguageCPP:
		return cs.CPP
	case LanguageJS:
		return cs.JS
	}
	return ""
}

// StringList is an ordered list of short strings persisted as a JSON text column.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for string list: %T", value)
	}

	if len(data) == 0 {
		*s = StringList{}
		return nil
	}

	return json.Unmarshal(data, s)
}

// GormDataType tells GORM which column type to use for StringList fields.
func (StringList) GormDataType() string {
	return "text"
}

type Problem struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Codes       CodeSet    `gorm:"embedded;embeddedPrefix:code_" json:"codes"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	AuthorID    uint64     `gorm:"not null" json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
