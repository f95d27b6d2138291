package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/embedding"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type corpus []vector.Document

func (c corpus) Documents(context.Context) ([]vector.Document, error) { return c, nil }

func newRetriever(t *testing.T, docs corpus, cfg Config) *Retriever {
	t.Helper()
	enc, err := embedding.NewHashEncoder(64)
	require.NoError(t, err)
	store, err := vecstore.Open(context.Background(), vecstore.Config{Path: t.TempDir()}, docs, enc)
	require.NoError(t, err)
	r, err := New(store, cfg, nil)
	require.NoError(t, err)
	return r
}

func recipeDoc(id int, weakness string, langs []string, content string) vector.Document {
	return vector.Document{ID: id, Metadata: vector.Metadata{WeaknessID: weakness, Languages: langs}, Content: content}
}

func TestRetrieveDirectWeaknessMatch(t *testing.T) {
	r := newRetriever(t, corpus{recipeDoc(0, "CWE-89", nil, sqliRecipe)}, DefaultConfig())

	got, err := r.Retrieve(context.Background(), "CWE-89", "java", "stmt.execute(q)")
	require.NoError(t, err)
	assert.Contains(t, got, "**SQLi**")
	assert.Contains(t, got, "Use parameterized queries.")
	assert.Contains(t, got, "**Checklist:**\n- validate input")
	assert.Contains(t, got, "**Fix Idea:**\nSample Fix Idea\nUse prepared statements.")

	out, err := r.RetrieveDetailed(context.Background(), " cwe-89 ", "java", "")
	require.NoError(t, err)
	assert.Equal(t, TierWeakness, out.Tier)
	assert.Equal(t, got, out.Context)
}

func TestRetrieveFallsBackToFilteredText(t *testing.T) {
	xss := "name: XSS\nShort Description:\nEscape untrusted output."
	r := newRetriever(t, corpus{recipeDoc(0, "CWE-79", []string{"java"}, xss)}, DefaultConfig())

	before := testutil.ToFloat64(RetrievalsTotal.WithLabelValues(string(TierFullText)))
	out, err := r.RetrieveDetailed(context.Background(), "CWE-89", "java", "<script>")
	require.NoError(t, err)
	assert.Equal(t, TierFullText, out.Tier)
	assert.Equal(t, "CWE-79", out.Document.Metadata.WeaknessID)
	assert.Equal(t, "**XSS**\n\nEscape untrusted output.", out.Context)
	assert.Equal(t, before+1, testutil.ToFloat64(RetrievalsTotal.WithLabelValues(string(TierFullText))))
}

func TestRetrieveLanguageFilterExcludesOnlyCandidate(t *testing.T) {
	r := newRetriever(t, corpus{recipeDoc(0, "CWE-79", []string{"python"}, "name: XSS")}, DefaultConfig())

	got, err := r.Retrieve(context.Background(), "CWE-89", "java", "...")
	require.NoError(t, err)
	assert.Equal(t, NoGuidance, got)
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	r := newRetriever(t, corpus{}, DefaultConfig())
	out, err := r.RetrieveDetailed(context.Background(), "CWE-89", "java", "code")
	require.NoError(t, err)
	assert.Equal(t, TierNone, out.Tier)
	assert.Equal(t, NoGuidance, out.Context)
}

func TestRetrieveDistanceThreshold(t *testing.T) {
	docs := corpus{recipeDoc(0, "CWE-79", []string{"python"}, "name: XSS")}
	strict := newRetriever(t, docs, DefaultConfig())
	got, err := strict.Retrieve(context.Background(), "CWE-89", "java", "")
	require.NoError(t, err)
	assert.Equal(t, NoGuidance, got)

	loose := newRetriever(t, docs, Config{MaxWeaknessDistance: 10})
	got, err = loose.Retrieve(context.Background(), "CWE-89", "java", "")
	require.NoError(t, err)
	assert.Equal(t, "**XSS**", got)
}

type recordingSearcher struct {
	weaknessErr error
	textQuery   string
	textLang    string
}

func (s *recordingSearcher) SearchByWeakness(context.Context, string, int) ([]vecstore.Result, error) {
	return nil, s.weaknessErr
}

func (s *recordingSearcher) SearchByText(_ context.Context, query string, _ int, language string) ([]vecstore.Result, error) {
	s.textQuery, s.textLang = query, language
	return nil, nil
}

func TestFallbackQueryUsesCodePrefix(t *testing.T) {
	s := &recordingSearcher{}
	r, err := New(s, Config{CodePrefix: 3}, nil)
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "CWE-22", "go", "äöüxyz")
	require.NoError(t, err)
	assert.Equal(t, "go CWE-22 äöü", s.textQuery)
	assert.Equal(t, "go", s.textLang)

	r, err = New(s, DefaultConfig(), nil)
	require.NoError(t, err)
	code := strings.Repeat("a", 800)
	_, err = r.Retrieve(context.Background(), "CWE-22", "go", code)
	require.NoError(t, err)
	assert.Equal(t, "go CWE-22 "+code[:DefaultCodePrefix], s.textQuery)
}

func TestRetrievePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("index unavailable")
	r, err := New(&recordingSearcher{weaknessErr: boom}, DefaultConfig(), nil)
	require.NoError(t, err)
	_, err = r.Retrieve(context.Background(), "CWE-89", "java", "")
	assert.ErrorIs(t, err, boom)
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, DefaultConfig(), nil)
	assert.Error(t, err)
	_, err = New(&recordingSearcher{}, Config{MaxWeaknessDistance: -1}, nil)
	assert.Error(t, err)
}
