package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Prefs are the defaults offered at the start of the next game.
type Prefs struct {
	Players int    `json:"players"`
	Theme   string `json:"theme"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".lemonade")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func prefsPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prefs.json"), nil
}

func SavePrefs(p Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	p.Theme = strings.ToLower(strings.TrimSpace(p.Theme))
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

// LoadPrefs returns zero Prefs when nothing has been saved yet.
func LoadPrefs() (Prefs, error) {
	path, err := prefsPath()
	if err != nil {
		return Prefs{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Prefs{}, nil
		}
		return Prefs{}, err
	}
	var p Prefs
	if err := json.Unmarshal(body, &p); err != nil {
		return Prefs{}, err
	}
	if p.Players < 0 {
		p.Players = 0
	}
	return p, nil
}

func ClearPrefs() error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
