package queries

import "errors"

// DownloadProjectQuery represents a query to package a project as a ZIP
// archive
type DownloadProjectQuery struct {
	ProjectID string
}

// Validate validates the query
func (q DownloadProjectQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	return nil
}

// ProjectArchive is a packaged project ready to stream as an attachment
type ProjectArchive struct {
	FileName string
	Content  []byte
}

// ArchiveCacheKey returns the cache key under which a project's packaged
// archive is stored. Project deletion invalidates the same key.
func ArchiveCacheKey(projectID string) string {
	return "archive:" + projectID
}
