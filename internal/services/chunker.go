package services

// PageChunk is a bounded batch of page images sent together in one
// extraction request.
type PageChunk struct {
	Index int
	Pages []PageImage
}

type ChunkPlanner interface {
	Plan(pages []PageImage) []PageChunk
}

type chunkPlanner struct {
	pagesPerChunk int
}

func NewChunkPlanner(pagesPerChunk int) ChunkPlanner {
	if pagesPerChunk <= 0 {
		pagesPerChunk = 2
	}
	return &chunkPlanner{pagesPerChunk: pagesPerChunk}
}

// Plan partitions pages into contiguous chunks of at most pagesPerChunk,
// preserving page order. Empty input produces zero chunks.
func (p *chunkPlanner) Plan(pages []PageImage) []PageChunk {
	var chunks []PageChunk
	for start := 0; start < len(pages); start += p.pagesPerChunk {
		end := start + p.pagesPerChunk
		if end > len(pages) {
			end = len(pages)
		}
		chunks = append(chunks, PageChunk{
			Index: len(chunks),
			Pages: pages[start:end],
		})
	}
	return chunks
}
