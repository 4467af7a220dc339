package apiserver

import (
	"net/http"
	"os"
	"path/filepath"
)

// serveStaticUI serves the chat UI and falls back to index.html for
// non-asset paths so a bookmarked page still loads the app.
func (s *Server) serveStaticUI(w http.ResponseWriter, r *http.Request) {
	if s.uiDir == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// Clean the path to prevent directory traversal
	path := filepath.Clean(r.URL.Path)
	if path == "/" {
		path = "/index.html"
	}

	filePath := filepath.Join(s.uiDir, path)
	if _, err := os.Stat(filePath); err == nil {
		http.ServeFile(w, r, filePath)
		return
	}

	if !isAssetPath(path) {
		indexPath := filepath.Join(s.uiDir, "index.html")
		if _, err := os.Stat(indexPath); err == nil {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			http.ServeFile(w, r, indexPath)
			return
		}
	}

	w.WriteHeader(http.StatusNotFound)
}

// isAssetPath checks if a path looks like an asset (JS, CSS, image, etc.)
func isAssetPath(path string) bool {
	assetExtensions := map[string]bool{
		".js":    true,
		".css":   true,
		".png":   true,
		".jpg":   true,
		".jpeg":  true,
		".gif":   true,
		".svg":   true,
		".woff":  true,
		".woff2": true,
		".ttf":   true,
		".eot":   true,
	}
	ext := filepath.Ext(path)
	return assetExtensions[ext]
}
