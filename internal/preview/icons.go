package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/teams"
)

// cbsIconBaseURL serves the team logo SVGs, one per icon id.
const cbsIconBaseURL = "https://sports.cbsimg.net/fly/images/nfl/logos/team/"

// IconStore keeps team logo SVGs in a local folder, named <icon-id>.svg, and
// hands them to the page template as inline data URIs. A missing icon is not
// an error; the affected card just renders without a logo.
type IconStore struct {
	dir     string
	reg     *teams.Registry
	baseURL string
}

func NewIconStore(dir string, reg *teams.Registry) *IconStore {
	return &IconStore{dir: dir, reg: reg, baseURL: cbsIconBaseURL}
}

// Fetch downloads the logo for every known team into the store's folder,
// skipping icons already on disk. Returns how many were downloaded; a failed
// download is logged and skipped, never fatal.
func (s *IconStore) Fetch(ctx context.Context) (int, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating icon folder %s: %w", s.dir, err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	fetched := 0
	for _, code := range s.reg.Codes() {
		id, ok := s.reg.IDFor(code)
		if !ok {
			continue
		}
		path := filepath.Join(s.dir, id+".svg")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := s.fetchOne(ctx, client, id, path); err != nil {
			slog.Warn("Icon download failed", "team", code, "error", err)
			continue
		}
		slog.Info("Icon downloaded", "team", code, "path", path)
		fetched++
	}
	return fetched, nil
}

func (s *IconStore) fetchOne(ctx context.Context, client *http.Client, id, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+id+".svg", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DataURI returns the team's logo as an inline SVG data URI, or "" when the
// team is unknown or its icon has not been downloaded.
func (s *IconStore) DataURI(code teams.Code) template.URL {
	if s == nil {
		return ""
	}
	id, ok := s.reg.IDFor(code)
	if !ok {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(s.dir, id+".svg"))
	if err != nil {
		return ""
	}
	// The Saints and Commanders marks do not survive the white recolor;
	// a letter mark stands in for them.
	if code == "SAINTS" || code == "COMMANDERS" {
		data = letterMark(code)
	} else {
		data = whiteFill(data)
	}
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data))
}

// whiteFill recolors an SVG white so it reads on the colored pick highlight.
func whiteFill(data []byte) []byte {
	svg := string(data)
	if strings.Contains(svg, "<svg") && !strings.Contains(svg, `fill="white"`) {
		svg = strings.Replace(svg, "<svg", `<svg fill="white"`, 1)
	}
	return []byte(svg)
}

func letterMark(code teams.Code) []byte {
	letter := string(code[0])
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><text x="50" y="50" font-family="Arial" font-size="50" text-anchor="middle" dominant-baseline="central" fill="white">%s</text></svg>`, letter))
}
