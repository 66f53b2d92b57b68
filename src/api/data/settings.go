package data

import (
	"sync"

	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/types"
)

// Runtime settings (provider endpoint overrides, feature toggles) live in
// the settings table and are cached at startup.

var (
	settingsCache map[string]string
	settingsMu    sync.RWMutex
)

// LoadSettings populates the cache from the settings table.
func LoadSettings(db *gorm.DB) error {
	var settings []types.Setting
	if err := db.Find(&settings).Error; err != nil {
		return err
	}

	settingsMu.Lock()
	defer settingsMu.Unlock()

	settingsCache = make(map[string]string)
	for _, s := range settings {
		settingsCache[s.Name] = s.Value
	}
	return nil
}

// GetSetting returns a cached setting value, or "" when unset.
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}
