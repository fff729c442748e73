// Package history walks a repository's commit log to build per-author,
// timeline, and churn aggregates, then asks the LLM layer for a narrative
// summary of what it found.
package history

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/repodocs/repodocs/internal/config"
	"github.com/repodocs/repodocs/internal/llm"
	"github.com/repodocs/repodocs/internal/logging"
	"github.com/repodocs/repodocs/internal/state"
)

// topChurnFiles is how many of the most-changed files AnalyzeHistory reports.
const topChurnFiles = 10

// Run reads up to cfg.MaxCommits commits from root's git log, derives
// per-author counts, a year/quarter timeline, and the top churned files,
// then asks client for a narrative summary and writes both to st.
func Run(ctx context.Context, st *state.Store, root string, cfg config.RepoConfig, client *llm.Client) error {
	timer := logging.StartTimer(logging.CategoryHistory, "analyze_history")
	defer timer.Stop()

	if err := checkGitRepo(ctx, root); err != nil {
		logging.HistoryDebug("skipping history scan, not a git repository: %v", err)
		st.SetCommitHistory(nil)
		st.SetHistorySummary("")
		return nil
	}

	maxCommits := cfg.MaxCommits
	if maxCommits <= 0 {
		maxCommits = 1000
	}

	records, err := readCommits(ctx, root, maxCommits)
	if err != nil {
		return fmt.Errorf("history: read commits: %w", err)
	}
	logging.History("analyzed %d commits under %s", len(records), root)
	st.SetCommitHistory(records)

	summary, err := summarize(ctx, client, records)
	if err != nil {
		logging.HistoryDebug("narrative summary unavailable: %v", err)
		summary = ""
	}
	st.SetHistorySummary(summary)
	return nil
}

func checkGitRepo(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	return cmd.Run()
}

// readCommits runs `git log --numstat` and folds each commit's numstat lines
// into one CommitRecord.
func readCommits(ctx context.Context, root string, maxCommits int) ([]state.CommitRecord, error) {
	cmd := exec.CommandContext(ctx, "git", "log",
		fmt.Sprintf("-n%d", maxCommits),
		"--pretty=format:COMMIT:%H|%an|%ct|%s",
		"--numstat",
	)
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	var records []state.CommitRecord
	var current *state.CommitRecord

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "COMMIT:") {
			if current != nil {
				records = append(records, *current)
			}
			parts := strings.SplitN(strings.TrimPrefix(line, "COMMIT:"), "|", 4)
			if len(parts) < 4 {
				current = nil
				continue
			}
			ts, _ := strconv.ParseInt(parts[2], 10, 64)
			current = &state.CommitRecord{
				SHA:       parts[0],
				Author:    parts[1],
				Timestamp: time.Unix(ts, 0).UTC(),
				Subject:   parts[3],
			}
			continue
		}

		if current == nil || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		added, _ := strconv.Atoi(fields[0])
		deleted, _ := strconv.Atoi(fields[1])
		current.ChangedFiles = append(current.ChangedFiles, fields[2])
		current.Insertions += added
		current.Deletions += deleted
	}
	if current != nil {
		records = append(records, *current)
	}
	return records, nil
}

// AuthorCounts returns the number of commits per author.
func AuthorCounts(records []state.CommitRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Author]++
	}
	return counts
}

// Timeline buckets commit counts by "YYYY-Qn".
func Timeline(records []state.CommitRecord) map[string]int {
	buckets := make(map[string]int)
	for _, r := range records {
		quarter := (int(r.Timestamp.Month())-1)/3 + 1
		key := fmt.Sprintf("%d-Q%d", r.Timestamp.Year(), quarter)
		buckets[key]++
	}
	return buckets
}

// TopChurnedFiles returns the n most frequently changed file paths, most
// churned first.
func TopChurnedFiles(records []state.CommitRecord, n int) []string {
	if n <= 0 {
		n = topChurnFiles
	}
	churn := make(map[string]int)
	for _, r := range records {
		for _, f := range r.ChangedFiles {
			churn[f]++
		}
	}
	type pair struct {
		file  string
		count int
	}
	pairs := make([]pair, 0, len(churn))
	for f, c := range churn {
		pairs = append(pairs, pair{f, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].file < pairs[j].file
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.file
	}
	return out
}

const summaryPromptTemplate = `You are summarizing a repository's commit history for a technical audience.

Author commit counts: %s
Commit timeline (by quarter): %s
Most frequently changed files: %s
Total commits analyzed: %d

Write a short narrative (3-5 sentences) describing the project's development pattern,
contributor activity, and which areas of the codebase see the most churn.`

func summarize(ctx context.Context, client *llm.Client, records []state.CommitRecord) (string, error) {
	if client == nil || len(records) == 0 {
		return "", nil
	}

	authors := AuthorCounts(records)
	timeline := Timeline(records)
	churn := TopChurnedFiles(records, topChurnFiles)

	prompt := fmt.Sprintf(summaryPromptTemplate,
		formatCounts(authors), formatCounts(timeline), strings.Join(churn, ", "), len(records))

	return client.Generate(ctx, llm.Request{
		SystemPrompt: "You write concise, factual summaries of software repository history.",
		UserPrompt:   prompt,
		MaxTokens:    400,
		Temperature:  0.3,
	})
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}
