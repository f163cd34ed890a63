package index

import "github.com/harukit/likes-archive/model"

// DefaultPageSize is the number of likes per archive page.
const DefaultPageSize = 20

// BuildPages slices the enriched archive likes into fixed-size pages. Page n
// (1-indexed) holds items [(n-1)*pageSize, n*pageSize). Every page carries
// the global totals. Pagination is fully regenerated whenever the source
// changes; there is no incremental mode.
func BuildPages(likes []model.ArchiveEntry, pageSize int) []model.ArchivePage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (len(likes) + pageSize - 1) / pageSize
	pages := make([]model.ArchivePage, 0, totalPages)

	for page := 0; page < totalPages; page++ {
		start := page * pageSize
		end := start + pageSize
		if end > len(likes) {
			end = len(likes)
		}
		pages = append(pages, model.ArchivePage{
			Page:       page + 1,
			TotalPages: totalPages,
			TotalLikes: len(likes),
			Likes:      likes[start:end],
		})
	}
	return pages
}
