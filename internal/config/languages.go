package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var defaultLanguages []byte

// ErrUnknownLanguage reports a language code missing from the model table.
var ErrUnknownLanguage = errors.New("language not configured")

// LanguageModels names the models used for one spoken language.
type LanguageModels struct {
	Kaldi       string `yaml:"kaldi"`
	Punctuation string `yaml:"punctuation"`
	Spacy       string `yaml:"spacy"`
	// Uppercase marks punctuation models that expect lowercased input.
	Uppercase bool `yaml:"uppercase"`
}

// Languages maps ISO 639-1 codes to their models.
type Languages map[string]LanguageModels

// ParseLanguages decodes a YAML language table.
func ParseLanguages(data []byte) (Languages, error) {
	var table Languages
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse languages: %w", err)
	}
	normalized := make(Languages, len(table))
	for code, models := range table {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		models.Kaldi = strings.TrimSpace(models.Kaldi)
		models.Punctuation = strings.TrimSpace(models.Punctuation)
		models.Spacy = strings.TrimSpace(models.Spacy)
		normalized[code] = models
	}
	return normalized, nil
}

// LoadLanguages reads the language table at path, or the built-in table when
// path is empty. Relative Kaldi model paths in a file are resolved against the
// file's directory.
func LoadLanguages(path string) (Languages, error) {
	if strings.TrimSpace(path) == "" {
		return ParseLanguages(defaultLanguages)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read languages: %w", err)
	}
	table, err := ParseLanguages(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for code, models := range table {
		if models.Kaldi != "" && !filepath.IsAbs(models.Kaldi) {
			models.Kaldi = filepath.Join(base, models.Kaldi)
			table[code] = models
		}
	}
	return table, nil
}

// Lookup returns the models for code.
func (l Languages) Lookup(code string) (LanguageModels, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	models, ok := l[code]
	if !ok {
		return LanguageModels{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownLanguage, code, strings.Join(l.Codes(), ", "))
	}
	return models, nil
}

// Codes returns the configured language codes in sorted order.
func (l Languages) Codes() []string {
	codes := make([]string, 0, len(l))
	for code := range l {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
