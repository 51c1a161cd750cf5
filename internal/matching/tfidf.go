package matching

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Language keys for stop-word selection.
const (
	langEnglish = "en"
	langRussian = "ru"
)

var englishStopWords = toSet([]string{
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "for",
	"from", "has", "have", "he", "her", "his", "i", "if", "in", "into", "is",
	"it", "its", "my", "no", "not", "of", "on", "or", "our", "she", "so",
	"that", "the", "their", "them", "then", "there", "these", "they", "this",
	"to", "was", "we", "were", "what", "when", "which", "who", "will", "with",
	"you", "your",
})

var russianStopWords = toSet([]string{
	"и", "в", "во", "не", "что", "он", "на", "я", "с", "со", "как", "а",
	"то", "все", "она", "так", "его", "но", "да", "ты", "к", "у", "же",
	"вы", "за", "бы", "по", "ее", "мне", "было", "вот", "от", "меня",
	"еще", "нет", "о", "из", "ему", "или", "для", "при", "это", "мы",
	"они", "быть", "был", "чем", "более",
})

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// detectLanguage reports "ru" when the text contains Cyrillic characters,
// "en" otherwise. Mirrors the upstream parser's coarse detection; anything
// beyond en/ru is treated as English.
func detectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return langRussian
		}
	}
	return langEnglish
}

func stopWordsFor(lang string) map[string]bool {
	if lang == langRussian {
		return russianStopWords
	}
	return englishStopWords
}

// tokenize lowercases text and splits it into letter/digit runs, dropping
// stop words and single-character tokens.
func tokenize(text string, stop map[string]bool) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 || stop[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// terms expands tokens into unigrams plus bigrams.
func terms(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func termCounts(doc string, stop map[string]bool) map[string]float64 {
	counts := make(map[string]float64)
	for _, t := range terms(tokenize(doc, stop)) {
		counts[t]++
	}
	return counts
}

// tfidfCosine computes the cosine similarity between two documents over
// their shared TF-IDF term space. Stop words are selected by the detected
// language of the combined text.
func tfidfCosine(docA, docB string) float64 {
	stop := stopWordsFor(detectLanguage(docA + docB))
	countsA := termCounts(docA, stop)
	countsB := termCounts(docB, stop)
	if len(countsA) == 0 || len(countsB) == 0 {
		return 0.0
	}

	// Two-document corpus: df is 1 or 2 per term, idf smoothed the way
	// sklearn does it so terms present in both docs still contribute.
	idf := func(term string) float64 {
		df := 0.0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		return math.Log(3.0/(1.0+df)) + 1.0
	}

	weight := func(counts map[string]float64) map[string]float64 {
		w := make(map[string]float64, len(counts))
		var norm float64
		for term, count := range counts {
			v := count * idf(term)
			w[term] = v
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range w {
				w[term] /= norm
			}
		}
		return w
	}

	wa := weight(countsA)
	wb := weight(countsB)

	var dot float64
	for term, v := range wa {
		dot += v * wb[term]
	}
	return clamp01(dot)
}

// tfidfVectorizer maps documents into a fixed TF-IDF feature space, fitted
// over a training corpus. Used by the classifier strategy.
type tfidfVectorizer struct {
	Vocab       map[string]int
	IDF         []float64
	MaxFeatures int
}

// fitVectorizer builds the vocabulary and IDF weights from docs, keeping the
// maxFeatures terms with the highest document frequency.
func fitVectorizer(docs []string, maxFeatures int) *tfidfVectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		for term := range termCounts(doc, englishStopWords) {
			df[term]++
		}
	}

	type termFreq struct {
		term string
		df   int
	}
	ranked := make([]termFreq, 0, len(df))
	for term, count := range df {
		ranked = append(ranked, termFreq{term, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].df != ranked[j].df {
			return ranked[i].df > ranked[j].df
		}
		return ranked[i].term < ranked[j].term
	})
	if maxFeatures > 0 && len(ranked) > maxFeatures {
		ranked = ranked[:maxFeatures]
	}

	v := &tfidfVectorizer{
		Vocab:       make(map[string]int, len(ranked)),
		IDF:         make([]float64, len(ranked)),
		MaxFeatures: maxFeatures,
	}
	n := float64(len(docs))
	for i, tf := range ranked {
		v.Vocab[tf.term] = i
		v.IDF[i] = math.Log((1.0+n)/(1.0+float64(tf.df))) + 1.0
	}
	return v
}

// transform maps a document into the fitted feature space as an L2-normalized
// sparse vector. Out-of-vocabulary terms are ignored.
func (v *tfidfVectorizer) transform(doc string) map[int]float64 {
	features := make(map[int]float64)
	var norm float64
	for term, count := range termCounts(doc, englishStopWords) {
		idx, ok := v.Vocab[term]
		if !ok {
			continue
		}
		val := count * v.IDF[idx]
		features[idx] = val
		norm += val * val
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range features {
			features[idx] /= norm
		}
	}
	return features
}
