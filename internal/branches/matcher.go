package branches

// MatchIndex maps a commit identity to one landed branch.
type MatchIndex struct {
	branchesByCommit map[string]Branch
}

// BuildMatchIndex indexes branches by commit identity. A later branch replaces an earlier one with the same commit.
func BuildMatchIndex(landedBranches []Branch) MatchIndex {
	branchesByCommit := make(map[string]Branch, len(landedBranches))
	for _, branch := range landedBranches {
		branchesByCommit[branch.CommitIdentity] = branch
	}
	return MatchIndex{branchesByCommit: branchesByCommit}
}

// Lookup finds the landed branch sharing the local branch's commit. Names are ignored.
func (index MatchIndex) Lookup(localBranch Branch) (Branch, bool) {
	landedBranch, found := index.branchesByCommit[localBranch.CommitIdentity]
	return landedBranch, found
}

// Len reports the number of distinct commits in the index.
func (index MatchIndex) Len() int {
	return len(index.branchesByCommit)
}

// MatchResult is the lookup outcome for one local branch.
type MatchResult struct {
	Local  Branch
	Landed Branch
	Found  bool
}

// Match probes the index built from landedBranches with each local branch, keeping local order.
func Match(localBranches []Branch, landedBranches []Branch) []MatchResult {
	return BuildMatchIndex(landedBranches).MatchAll(localBranches)
}

// MatchAll looks up every local branch in order.
func (index MatchIndex) MatchAll(localBranches []Branch) []MatchResult {
	results := make([]MatchResult, 0, len(localBranches))
	for _, localBranch := range localBranches {
		landedBranch, found := index.Lookup(localBranch)
		results = append(results, MatchResult{Local: localBranch, Landed: landedBranch, Found: found})
	}
	return results
}
