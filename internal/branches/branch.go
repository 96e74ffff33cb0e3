package branches

import "strings"

const branchFieldSeparatorConstant = " "

const (
	localBranchFieldCountConstant = 2
	pullRequestFieldCountConstant = 4
	openPullRequestStateConstant  = "open"
)

// Branch pairs a branch name with the commit its tip points at.
type Branch struct {
	Name           string
	CommitIdentity string
}

// FormatLocalLine renders the branch the way git prints it for the local listing.
func (branch Branch) FormatLocalLine() string {
	return branch.Name + branchFieldSeparatorConstant + branch.CommitIdentity
}

// ParseLocalBranchLine accepts "<name> <commit>" lines; any other token count is rejected.
func ParseLocalBranchLine(line string) (Branch, bool) {
	fields := strings.Split(line, branchFieldSeparatorConstant)
	if len(fields) != localBranchFieldCountConstant {
		return Branch{}, false
	}
	return Branch{Name: fields[0], CommitIdentity: fields[1]}, true
}

// PullRequestRecord is one line of forge output before state filtering.
type PullRequestRecord struct {
	State          string
	Identifier     string
	BranchName     string
	CommitIdentity string
}

// ParsePullRequestLine accepts "<state> <identifier> <branch> <commit>" lines; any other token count is rejected.
func ParsePullRequestLine(line string) (PullRequestRecord, bool) {
	fields := strings.Split(line, branchFieldSeparatorConstant)
	if len(fields) != pullRequestFieldCountConstant {
		return PullRequestRecord{}, false
	}
	return PullRequestRecord{
		State:          fields[0],
		Identifier:     fields[1],
		BranchName:     fields[2],
		CommitIdentity: fields[3],
	}, true
}

// IsOpen reports whether the pull request is still open. Every other state counts as landed.
func (record PullRequestRecord) IsOpen() bool {
	return record.State == openPullRequestStateConstant
}

// Branch projects the record onto its head branch.
func (record PullRequestRecord) Branch() Branch {
	return Branch{Name: record.BranchName, CommitIdentity: record.CommitIdentity}
}
