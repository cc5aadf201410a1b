package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const catalogFile = "notifications.yaml"

type Translations map[string]string

var (
	locales  = make(map[string]Translations)
	fallback = "fr"
	mu       sync.RWMutex
)

// LoadTranslations reads <localePath>/<locale>/notifications.yaml for every
// locale directory. Directories without a catalog are skipped.
func LoadTranslations(localePath string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := os.ReadDir(localePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := filepath.Join(localePath, locale, catalogFile)

		data, err := os.ReadFile(filePath)
		if err != nil {
			continue
		}

		var catalog struct {
			Email Translations `yaml:"EMAIL"`
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = catalog.Email
	}

	return nil
}

func SetFallback(locale string) {
	mu.Lock()
	defer mu.Unlock()
	if locale != "" {
		fallback = locale
	}
}

func Has(locale string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := locales[locale]
	return ok
}

// Translate looks key up in locale, then in the fallback locale, and returns
// the key itself when neither has it.
func Translate(locale, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != fallback {
		if trans, ok := locales[fallback]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}
