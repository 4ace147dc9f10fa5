package sched

// Chunk is the half-open index range [Start, End).
type Chunk struct {
	Start, End int
}

func (c Chunk) Len() int { return c.End - c.Start }

// Partition covers [0, n) with chunks of the given size; the last chunk may
// be shorter. A non-positive size yields a single chunk.
func Partition(n, size int) []Chunk {
	if n <= 0 {
		return nil
	}
	if size <= 0 || size > n {
		size = n
	}

	chunks := make([]Chunk, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks
}
