package classifier

import (
	"strings"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

// placeholderTitle is the generic title some wiki responses return when the
// real title is inaccessible. It carries no signal and must not suppress the
// URL fallback.
const placeholderTitle = "page"

var cgURLMarkers = []string{"cg+readiness", "cg-readiness", "cg+checklist", "cg-checklist"}
var pgURLMarkers = []string{"pg+readiness", "pg-readiness", "pg+checklist", "pg-checklist"}

var labelCorroborators = []string{"readiness", "checklist", "completion"}

// Classifier tags wiki links as CG Readiness, PG Readiness, both, or neither
// using ordered substring heuristics: resolved title first, raw link title
// next, URL markers last. Categories are evaluated independently.
type Classifier struct {
	labelSignal bool
}

var _ ports.LinkClassifier = (*Classifier)(nil)

// New builds the baseline title/URL classifier.
func New() *Classifier { return &Classifier{} }

// WithLabelSignal enables label corroboration: a label set naming a category
// alongside a checklist-ish term can add a category the title and URL missed.
// It never removes a match.
func (c *Classifier) WithLabelSignal() *Classifier {
	c.labelSignal = true
	return c
}

// Classify returns the category set for one link.
func (c *Classifier) Classify(resolvedTitle string, labels []string, rawTitle, url string) domain.CategorySet {
	corpus := buildCorpus(resolvedTitle, rawTitle)
	loweredURL := strings.ToLower(url)

	set := domain.CategorySet{
		CG: matchCategory(corpus, loweredURL, "cg readiness", cgURLMarkers),
		PG: matchCategory(corpus, loweredURL, "pg readiness", pgURLMarkers),
	}

	if c.labelSignal && set.Empty() {
		set.CG = labelsCorroborate(labels, "cg")
		set.PG = labelsCorroborate(labels, "pg")
	}

	return set
}

// buildCorpus picks the search text: resolved title unless it is the generic
// placeholder, else the raw link title, else empty.
func buildCorpus(resolvedTitle, rawTitle string) string {
	title := strings.ToLower(strings.TrimSpace(resolvedTitle))
	if title != "" && title != placeholderTitle {
		return title
	}
	return strings.ToLower(strings.TrimSpace(rawTitle))
}

func matchCategory(corpus, loweredURL, titleMarker string, urlMarkers []string) bool {
	if corpus != "" && strings.Contains(corpus, titleMarker) {
		return true
	}
	for _, marker := range urlMarkers {
		if strings.Contains(loweredURL, marker) {
			return true
		}
	}
	return false
}

// labelsCorroborate reports whether the label set names the category and at
// least one checklist-ish term.
func labelsCorroborate(labels []string, category string) bool {
	var named, corroborated bool
	for _, label := range labels {
		lowered := strings.ToLower(label)
		if lowered == category || strings.Contains(lowered, category+"-") || strings.Contains(lowered, category+"_") {
			named = true
		}
		for _, term := range labelCorroborators {
			if strings.Contains(lowered, term) {
				corroborated = true
			}
		}
	}
	return named && corroborated
}
