package resume

import (
	"math"
	"regexp"
	"strings"
)

// Similarity scores two texts in [0,1].
type Similarity func(a, b string) float64

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// TFIDFSimilarity fits a unigram+bigram TF-IDF model on just the two texts (English stop
// words removed, smoothed idf, L2 normalized) and returns the cosine of their vectors.
func TFIDFSimilarity(a, b string) float64 {
	docs := []map[string]float64{termCounts(a), termCounts(b)}
	df := map[string]int{}
	for _, doc := range docs {
		for term := range doc {
			df[term]++
		}
	}
	n := float64(len(docs))
	for _, doc := range docs {
		var norm float64
		for term, tf := range doc {
			w := tf * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			doc[term] = w
			norm += w * w
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return 0
		}
		for term := range doc {
			doc[term] /= norm
		}
	}
	var dot float64
	for term, w := range docs[0] {
		dot += w * docs[1][term]
	}
	return math.Min(1, math.Max(0, dot))
}

func termCounts(text string) map[string]float64 {
	tokens := []string{}
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}
	counts := map[string]float64{}
	for idx, tok := range tokens {
		counts[tok]++
		if idx > 0 {
			counts[tokens[idx-1]+" "+tok]++
		}
	}
	return counts
}

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`a about above across after afterwards again against all almost alone along
		already also although always am among amongst an and another any anyhow anyone anything anyway
		anywhere are around as at back be became because become becomes becoming been before beforehand
		behind being below beside besides between beyond both but by can cannot could did do does done
		down due during each eg either else elsewhere enough etc even ever every everyone everything
		everywhere except few for former formerly from further had has have he hence her here hereafter
		hereby herein hers herself him himself his how however ie if in inc indeed into is it its itself
		just keep last latter latterly least less ltd made many may me meanwhile might mine more moreover
		most mostly much must my myself namely neither never nevertheless next no nobody none noone nor
		not nothing now nowhere of off often on once one only onto or other others otherwise our ours
		ourselves out over own per perhaps please put rather re same see seem seemed seeming seems several
		she should since so some somehow someone something sometime sometimes somewhere still such than
		that the their them themselves then thence there thereafter thereby therefore therein thereupon
		these they this those though through throughout thru thus to together too toward towards under
		until up upon us very via was we well were what whatever when whence whenever where whereafter
		whereas whereby wherein whereupon wherever whether which while whither who whoever whole whom
		whose why will with within without would yet you your yours yourself yourselves`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
