// Package clustering groups tokenized lines by shared token-type shape and,
// optionally, refines the grouping by sequence similarity.
package clustering

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/cc-tundra/logpattern/pkg/logpattern/token"
)

// Member is one line contributing to a Cluster.
type Member struct {
	Tokens []token.Token
	Raw    string
}

// Cluster groups lines that share (or were merged into sharing) a token
// signature.
type Cluster struct {
	ID       int
	Members  []Member
	Centroid token.Signature
	Cohesion float64
}

// ClusterByExactSignature implements Stage A: bucket lines by exact
// token-type signature. Empty input yields empty output.
func ClusterByExactSignature(lines []Member) []*Cluster {
	if len(lines) == 0 {
		return nil
	}

	buckets := make(map[token.Signature][]Member)
	order := make([]token.Signature, 0)
	for _, m := range lines {
		sig := token.Sig(m.Tokens)
		if _, ok := buckets[sig]; !ok {
			order = append(order, sig)
		}
		buckets[sig] = append(buckets[sig], m)
	}

	clusters := make([]*Cluster, 0, len(order))
	for i, sig := range order {
		clusters = append(clusters, &Cluster{
			ID:       i,
			Members:  buckets[sig],
			Centroid: sig,
			Cohesion: 1.0,
		})
	}
	return clusters
}

// SequenceSimilarity computes the bounded [0,1] similarity between two
// token-type sequences: the longest-common-subsequence length over the
// total length, scaled by the ratio of the shorter to the longer sequence.
func SequenceSimilarity(a, b []token.Type) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	l := lcsLength(a, b)
	lengthRatio := float64(min(len(a), len(b))) / float64(max(len(a), len(b)))
	sim := (2.0 * float64(l) / float64(len(a)+len(b))) * lengthRatio
	if sim > 1.0 {
		sim = 1.0
	}
	if sim < 0.0 {
		sim = 0.0
	}
	return sim
}

func lcsLength(a, b []token.Type) int {
	n, m := len(a), len(b)
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[m]
}

// Refine implements Stage B: greedily merge clusters whose centroid
// similarity is at least threshold, highest-similarity pair first, tied by
// higher combined member count then lower cluster id.
func Refine(clusters []*Cluster, threshold float64) []*Cluster {
	active := make(map[int]*Cluster, len(clusters))
	for _, c := range clusters {
		active[c.ID] = c
	}

	for {
		bestSim := -1.0
		var bestA, bestB int
		ids := maps.Keys(active)
		sort.Ints(ids)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				ca, cb := active[ids[i]], active[ids[j]]
				seqA := signatureToTypes(ca.Centroid)
				seqB := signatureToTypes(cb.Centroid)
				sim := SequenceSimilarity(seqA, seqB)
				if sim < threshold {
					continue
				}
				if sim > bestSim ||
					(sim == bestSim && betterPair(ca, cb, active[bestA], active[bestB])) {
					bestSim = sim
					bestA, bestB = ids[i], ids[j]
				}
			}
		}

		if bestSim < 0 {
			break
		}

		merged := mergeClusters(active[bestA], active[bestB])
		delete(active, bestB)
		active[bestA] = merged
	}

	ids := maps.Keys(active)
	sort.Ints(ids)
	out := make([]*Cluster, 0, len(ids))
	for _, id := range ids {
		out = append(out, active[id])
	}
	return out
}

func betterPair(candA, candB, curA, curB *Cluster) bool {
	if curA == nil {
		return true
	}
	candTotal := len(candA.Members) + len(candB.Members)
	curTotal := len(curA.Members) + len(curB.Members)
	if candTotal != curTotal {
		return candTotal > curTotal
	}
	return candA.ID < curA.ID
}

func mergeClusters(a, b *Cluster) *Cluster {
	members := make([]Member, 0, len(a.Members)+len(b.Members))
	members = append(members, a.Members...)
	members = append(members, b.Members...)

	cohesion := meanPairwiseSimilarity(members)

	return &Cluster{
		ID:       a.ID,
		Members:  members,
		Centroid: a.Centroid,
		Cohesion: cohesion,
	}
}

func meanPairwiseSimilarity(members []Member) float64 {
	if len(members) <= 1 {
		return 1.0
	}
	total := 0.0
	count := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += SequenceSimilarity(token.TypeSeq(members[i].Tokens), token.TypeSeq(members[j].Tokens))
			count++
		}
	}
	if count == 0 {
		return 1.0
	}
	return total / float64(count)
}

func signatureToTypes(sig token.Signature) []token.Type {
	parts := splitSig(string(sig))
	types := make([]token.Type, len(parts))
	for i, p := range parts {
		types[i] = token.Type(p[0] - '0')
	}
	return types
}

func splitSig(sig string) []string {
	if sig == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(sig); i++ {
		if sig[i] == '|' {
			out = append(out, sig[start:i])
			start = i + 1
		}
	}
	out = append(out, sig[start:])
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
