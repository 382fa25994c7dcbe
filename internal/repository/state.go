package repository

import (
	"slices"
	"strings"
)

// graph is the history sub-state of a resource.
type graph struct {
	nodes        []Node
	activeBranch string
	hasRemotes   bool
	remoteTags   []Tag
}

func (g *graph) view() GraphView {
	return GraphView{
		Nodes:        slices.Clone(g.nodes),
		ActiveBranch: g.activeBranch,
		HasRemotes:   g.hasRemotes,
		RemoteTags:   slices.Clone(g.remoteTags),
	}
}

// staging is the working tree sub-state of a resource.
type staging struct {
	files          []FileStatus
	inRebase       bool
	inMerge        bool
	commitTitle    string
	commitBody     string
	newBranchName  string
	diffGeneration uint64
}

func (s *staging) apply(tree *WorkingTree) {
	s.files = tree.Files
	s.inRebase = tree.InRebase
	s.inMerge = tree.InMerge

	if tree.InMerge {
		s.commitTitle, s.commitBody = splitCommitMessage(tree.CommitMessage)
	}
}

// invalidateDiffs marks every loaded diff as stale.
func (s *staging) invalidateDiffs() {
	s.diffGeneration++
}

func (s *staging) view() StagingView {
	return StagingView{
		Files:          slices.Clone(s.files),
		InRebase:       s.inRebase,
		InMerge:        s.inMerge,
		CommitTitle:    s.commitTitle,
		CommitBody:     s.commitBody,
		NewBranchName:  s.newBranchName,
		DiffGeneration: s.diffGeneration,
	}
}

// splitCommitMessage splits message at its first newline into a title
// and the remaining body.
func splitCommitMessage(message string) (string, string) {
	title, body, _ := strings.Cut(message, "\n")
	return title, body
}
