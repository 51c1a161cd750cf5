package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, langEnglish, detectLanguage("senior backend engineer"))
	assert.Equal(t, langRussian, detectLanguage("старший инженер backend"))
	assert.Equal(t, langEnglish, detectLanguage(""))
}

func TestTokenize_DropsStopWordsAndShortTokens(t *testing.T) {
	tokens := tokenize("The quick fox is in a go-lang box", englishStopWords)

	assert.Equal(t, []string{"quick", "fox", "go", "lang", "box"}, tokens)
}

func TestTfidfCosine_IdenticalDocuments(t *testing.T) {
	doc := "distributed systems engineer with go and kubernetes experience"

	assert.InDelta(t, 1.0, tfidfCosine(doc, doc), 0.001)
}

func TestTfidfCosine_DisjointDocuments(t *testing.T) {
	assert.Equal(t, 0.0, tfidfCosine("haskell compiler research", "marketing brand strategy"))
}

func TestTfidfCosine_EmptyDocument(t *testing.T) {
	assert.Equal(t, 0.0, tfidfCosine("", "backend engineer"))
}

func TestTfidfCosine_SharedTermsScoreHigher(t *testing.T) {
	job := "golang backend engineer building microservices on kubernetes"
	strong := "backend engineer experienced with golang microservices and kubernetes"
	weak := "frontend designer working with figma and css animations"

	assert.Greater(t, tfidfCosine(strong, job), tfidfCosine(weak, job))
}

func TestFitVectorizer_MaxFeatures(t *testing.T) {
	docs := []string{
		"go services and databases",
		"go pipelines and queues",
		"python scripts and notebooks",
	}
	v := fitVectorizer(docs, 3)

	require.Len(t, v.Vocab, 3)
	require.Len(t, v.IDF, 3)
	// "go" appears in two documents and must survive the cut.
	assert.Contains(t, v.Vocab, "go")
}

func TestVectorizerTransform_IgnoresUnknownTerms(t *testing.T) {
	v := fitVectorizer([]string{"go services", "go pipelines"}, 0)

	features := v.transform("rust embedded firmware")
	assert.Empty(t, features)

	features = v.transform("go services")
	assert.NotEmpty(t, features)

	var norm float64
	for _, val := range features {
		norm += val * val
	}
	assert.InDelta(t, 1.0, norm, 0.001)
}
