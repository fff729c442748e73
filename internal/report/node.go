package report

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/repodocs/repodocs/internal/graph"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/state"
)

// Node builds and writes report.json once every other stage has run,
// timing itself from when the run started.
type Node struct {
	graph.BaseNode
	Client  *llm.Client
	Model   string
	Started time.Time
	DryRun  bool
}

// NewNode returns a WriteReport node named "write_report". started is the
// timestamp the overall run began, used to compute DurationMs. When dryRun
// is set, the report is built but not written to disk, mirroring the
// assembly stage's own dry-run behavior.
func NewNode(client *llm.Client, model string, started time.Time, dryRun bool) *Node {
	return &Node{BaseNode: graph.BaseNode{NodeName: "write_report"}, Client: client, Model: model, Started: started, DryRun: dryRun}
}

func (n *Node) Prepare(ctx context.Context, st *state.Store) (any, error) {
	return st, nil
}

func (n *Node) Execute(ctx context.Context, prep any) (any, error) {
	st := prep.(*state.Store)

	r := Build(st, n.Client, n.Model, graph.RunID(ctx), time.Since(n.Started))
	if n.DryRun {
		return r, nil
	}
	return r, Write(st.OutputDir(), repoSlug(st.RepoSource()), r)
}

func (n *Node) Post(ctx context.Context, st *state.Store, prep, exec any) (graph.ActionLabel, error) {
	return graph.DefaultLabel, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// repoSlug derives a filesystem-safe directory name from a repo source
// URL or local path, mirroring the assembly stage's own slug rule so
// report.json lands beside the generated documents.
func repoSlug(source string) string {
	s := strings.TrimSuffix(source, "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
