package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/goccy/go-json"

	"github.com/wikify/wikify/internal/recommend"
	"github.com/wikify/wikify/internal/wiki"
)

type exportArticle struct {
	ID                int64    `json:"id"`
	Title             string   `json:"title"`
	URL               string   `json:"url"`
	Done              bool     `json:"done"`
	RelatedCategories []string `json:"relatedCategories"`
	CleanupMessages   []string `json:"cleanupMessages"`
	Relevance         float64  `json:"relevance"`
}

type exportPayload struct {
	Username  string            `json:"username"`
	Interests []string          `json:"interests"`
	Summary   recommend.Summary `json:"summary"`
	Sort      string            `json:"sort"`
	Articles  []exportArticle   `json:"articles"`
}

// ExportToJSON renders the session in the current view order.
func (m *Model) ExportToJSON() (string, error) {
	items := m.buildItems()
	if len(items) == 0 {
		return "", fmt.Errorf("no articles to export")
	}

	payload := exportPayload{
		Username:  m.username,
		Interests: m.interests.Values(),
		Summary:   m.summary,
		Sort:      m.sort.Key.String() + ":" + m.sort.Dir.String(),
		Articles:  make([]exportArticle, 0, len(items)),
	}
	for _, it := range items {
		payload.Articles = append(payload.Articles, exportArticle{
			ID:                it.ID,
			Title:             it.Title,
			URL:               wiki.ArticleURL(it.ID),
			Done:              it.Done,
			RelatedCategories: it.RelatedCategories,
			CleanupMessages:   it.CleanupMessages,
			Relevance:         it.Relevance,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal articles: %w", err)
	}
	return string(data), nil
}

// ExportToClipboard copies the export to the clipboard
func (m *Model) ExportToClipboard() error {
	data, err := m.ExportToJSON()
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(data); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// ExportToFile writes the export to a fresh file in the temp dir and
// returns its path. Used when no clipboard is available.
func (m *Model) ExportToFile() (string, error) {
	data, err := m.ExportToJSON()
	if err != nil {
		return "", err
	}

	tmpDir := os.TempDir()
	tmpFile := filepath.Join(tmpDir, "wikify-export.json")
	for counter := 1; ; counter++ {
		if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
			break
		}
		tmpFile = filepath.Join(tmpDir, fmt.Sprintf("wikify-export-%d.json", counter))
	}

	if err := os.WriteFile(tmpFile, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return tmpFile, nil
}

// CopyCurrentURL copies the URL of the article under the cursor.
func (m *Model) CopyCurrentURL() (string, error) {
	item := m.listView.GetItem(m.listView.Cursor())
	if item == nil {
		return "", fmt.Errorf("no article selected")
	}
	url := wiki.ArticleURL(item.ID)
	if err := clipboard.WriteAll(url); err != nil {
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return url, nil
}
