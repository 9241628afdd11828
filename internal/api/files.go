package api

import (
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sganis/statwalker/internal/aggregator"
	"github.com/sganis/statwalker/internal/common"
)

// fileRecord is one entry of the /api/files response.
type fileRecord struct {
	Path     string `json:"path"`
	Owner    string `json:"owner"`
	Size     int64  `json:"size"`
	Accessed int64  `json:"accessed"`
	Modified int64  `json:"modified"`
}

var (
	ownerCacheMu sync.Mutex
	ownerCache   = map[uint32]string{}
)

// ownerName resolves uid to a username via the host name service,
// caching results the same way the aggregator's user resolver does.
func ownerName(uid uint32) string {
	ownerCacheMu.Lock()
	if name, ok := ownerCache[uid]; ok {
		ownerCacheMu.Unlock()
		return name
	}
	ownerCacheMu.Unlock()

	name := strconv.FormatUint(uint64(uid), 10)
	if u, err := user.LookupId(name); err == nil && u.Username != "" {
		name = u.Username
	}

	ownerCacheMu.Lock()
	ownerCache[uid] = name
	ownerCacheMu.Unlock()
	return name
}

// handleFiles implements the on-demand, non-recursive directory listing
// of /api/files. Authorization is checked before the filesystem is ever
// touched. The actual directory read runs on a goroutine
// bounded by the server's semaphore, so a slow or huge directory never
// starves other in-flight requests on the cooperative HTTP event loop.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	claims, ok := authenticate(w, r)
	if !ok {
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeAuthError(w, common.ErrMissingPath)
		return
	}

	users := parseUsersCSV(r.URL.Query().Get("users"))
	if !authorizeUserFilter(w, claims, users) {
		return
	}
	age := parseAgeFilter(r.URL.Query().Get("age"))

	if !filesSupported {
		writeError(w, http.StatusNotImplemented, "file listing not supported on this platform")
		return
	}

	type scanResult struct {
		entries []fileRecord
		err     error
	}
	resCh := make(chan scanResult, 1)

	if err := s.sem.Acquire(r.Context(), 1); err != nil {
		writeError(w, http.StatusInternalServerError, "request cancelled")
		return
	}
	go func() {
		defer s.sem.Release(1)
		entries, err := scanFilesBlocking(path, users, age)
		resCh <- scanResult{entries, err}
	}()

	res := <-resCh
	if res.err != nil {
		writeError(w, http.StatusBadRequest, res.err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res.entries)
}

// scanFilesBlocking performs the non-recursive os.ReadDir and per-entry
// stat; this is the blocking work offloaded away from the request's own
// goroutine scheduling concerns by handleFiles' semaphore.
func scanFilesBlocking(dir string, userFilter []string, ageFilter *int) ([]fileRecord, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	filterSet := make(map[string]struct{}, len(userFilter))
	for _, u := range userFilter {
		filterSet[u] = struct{}{}
	}

	now := time.Now().Unix()
	out := make([]fileRecord, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		owner := ""
		if uid, ok := fileOwnerUID(info); ok {
			owner = ownerName(uid)
		}
		if len(filterSet) > 0 {
			if _, ok := filterSet[owner]; !ok {
				continue
			}
		}

		mtime := info.ModTime().Unix()
		if ageFilter != nil && aggregator.AgeBucket(now, mtime) != *ageFilter {
			continue
		}

		out = append(out, fileRecord{
			Path:     filepath.Join(dir, de.Name()),
			Owner:    owner,
			Size:     info.Size(),
			Accessed: fileAtime(info),
			Modified: mtime,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
