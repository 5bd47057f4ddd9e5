package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// ProfileTTL is how long a saved profile stays valid.
const ProfileTTL = 7 * 24 * time.Hour

// Profile is the username and interest categories remembered between runs.
type Profile struct {
	Username   string    `json:"username"`
	Categories []string  `json:"categories"`
	SavedAt    time.Time `json:"saved_at"`
}

// Expired reports whether the profile is older than ProfileTTL at now.
func (p *Profile) Expired(now time.Time) bool {
	return now.Sub(p.SavedAt) > ProfileTTL
}

func GetProfilePath() string {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "profile.json")
}

// LoadProfile returns the saved profile, or nil when there is none or it
// has expired. A missing profile is the normal first-run state.
func LoadProfile() (*Profile, error) {
	return loadProfileAt(GetProfilePath(), time.Now())
}

func loadProfileAt(path string, now time.Time) (*Profile, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if p.Expired(now) || p.Username == "" {
		return nil, nil
	}
	return &p, nil
}

// Save writes the profile and stamps SavedAt.
func (p *Profile) Save() error {
	path := GetProfilePath()
	if path == "" {
		return fmt.Errorf("cannot determine profile path")
	}

	p.SavedAt = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// ClearProfile removes the saved profile. Removing a missing profile is not an error.
func ClearProfile() error {
	path := GetProfilePath()
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return nil
}
