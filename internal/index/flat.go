// Package index provides a flat inner-product index over L2-normalized
// vectors, used to preselect candidates before exact scoring.
package index

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Hit is one search result: the caller-supplied id and its cosine similarity
// to the query.
type Hit struct {
	ID    string
	Score float32
}

// Flat is an exhaustive inner-product index. Vectors are normalized on
// insertion, so inner product equals cosine similarity. Internal ids are
// dense and assigned in insertion order; insertion is append-only, so removal
// requires rebuilding. Not safe for concurrent mutation.
type Flat struct {
	dim     int
	vectors [][]float32
	ids     []string
	path    string
}

// New creates an empty index. If path is non-empty and points to a saved
// index, it is loaded; load failures yield an empty index.
func New(path string) *Flat {
	f := &Flat{path: path}
	if path != "" {
		_ = f.Load()
	}
	return f
}

// Add appends vectors with their ids. All vectors must share one dimension,
// which fixes the index dimension on first insertion.
func (f *Flat) Add(vectors [][]float32, ids []string) error {
	if len(vectors) != len(ids) {
		return fmt.Errorf("vectors and ids length mismatch: %d vs %d", len(vectors), len(ids))
	}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return fmt.Errorf("empty vector at position %d", i)
		}
		if f.dim == 0 {
			f.dim = len(vec)
		}
		if len(vec) != f.dim {
			return fmt.Errorf("vector at position %d has dimension %d, index expects %d", i, len(vec), f.dim)
		}
		f.vectors = append(f.vectors, normalize(vec))
		f.ids = append(f.ids, ids[i])
	}
	return nil
}

// Search returns the topK ids ranked by cosine similarity to query.
// An empty index returns an empty result set.
func (f *Flat) Search(query []float32, topK int) []Hit {
	if len(f.vectors) == 0 || topK <= 0 || len(query) != f.dim {
		return nil
	}
	q := normalize(query)

	hits := make([]Hit, 0, len(f.vectors))
	for i, vec := range f.vectors {
		hits = append(hits, Hit{ID: f.ids[i], Score: dot(q, vec)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// Reset drops all vectors; the next Add fixes a new dimension. Used ahead
// of a full rebuild.
func (f *Flat) Reset() {
	f.dim = 0
	f.vectors = nil
	f.ids = nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int {
	return len(f.vectors)
}

// Save writes the vectors to the configured path and the id mapping to a
// companion file alongside it.
func (f *Flat) Save() error {
	if f.path == "" {
		return nil
	}
	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create index directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("failed to create index file %s: %w", f.path, err)
	}
	defer file.Close()

	payload := flatSnapshot{Dim: f.dim, Vectors: f.vectors}
	if err := gob.NewEncoder(file).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	mapFile, err := os.Create(f.mapPath())
	if err != nil {
		return fmt.Errorf("failed to create id map file: %w", err)
	}
	defer mapFile.Close()

	w := bufio.NewWriter(mapFile)
	for i, id := range f.ids {
		fmt.Fprintf(w, "%d\t%s\n", i, id)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write id map: %w", err)
	}
	return nil
}

// Load reconstructs the index and id mapping from disk. Any read failure
// recovers to an empty index rather than returning a broken one.
func (f *Flat) Load() error {
	f.dim = 0
	f.vectors = nil
	f.ids = nil
	if f.path == "" {
		return nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open index file %s: %w", f.path, err)
	}
	defer file.Close()

	var payload flatSnapshot
	if err := gob.NewDecoder(file).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode index file %s: %w", f.path, err)
	}

	ids, err := loadIDMap(f.mapPath(), len(payload.Vectors))
	if err != nil {
		return fmt.Errorf("failed to load id map: %w", err)
	}

	f.dim = payload.Dim
	f.vectors = payload.Vectors
	f.ids = ids
	return nil
}

type flatSnapshot struct {
	Dim     int
	Vectors [][]float32
}

func (f *Flat) mapPath() string {
	return f.path + ".map"
}

func loadIDMap(path string, count int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ids := make([]string, count)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed id map line: %q", line)
		}
		idx, err := strconv.Atoi(parts[0])
		if err != nil || idx < 0 || idx >= count {
			return nil, fmt.Errorf("id map index out of range: %q", parts[0])
		}
		ids[idx] = parts[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	if norm == 0 {
		copy(out, vec)
		return out
	}
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
