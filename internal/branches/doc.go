// Package branches finds local branches that have already landed.
//
// It lists local branches through git and pull requests through a forge CLI
// in parallel, indexes the heads of non-open pull requests by commit, and
// prints each local branch whose tip commit is in that index. CommandBuilder
// exposes the workflow as the landed Cobra command; Service, the sources and
// the matcher are usable on their own with in-memory fixtures.
package branches
