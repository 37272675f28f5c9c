package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
)

// TRECSource points at the four files a TREC-style collection is spread
// across. Run gives each query's first-stage candidate list, Qrels the
// graded judgments, Topics "qid<TAB>query" lines and Corpus one JSON object
// per line with id, title and text.
type TRECSource struct {
	Run    string
	Qrels  string
	Topics string
	Corpus string
	// Depth caps the candidates taken per query from the run.
	Depth int
}

type runEntry struct {
	docID string
	rank  int
	score float64
}

// LoadTREC assembles examples in the order queries first appear in the run.
// Any qrel grade above zero counts as relevant. Candidates missing from the
// corpus keep an empty text and are logged.
func LoadTREC(src TRECSource) (*Dataset, error) {
	topics, err := readFile(src.Topics, parseTopics)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	qrels, err := readFile(src.Qrels, parseQrels)
	if err != nil {
		return nil, fmt.Errorf("load qrels: %w", err)
	}
	corpus, err := readFile(src.Corpus, parseCorpus)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	f, err := os.Open(src.Run)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	defer f.Close()

	order, runs, err := parseRun(f)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	ds := &Dataset{Name: strings.TrimSuffix(filepath.Base(src.Run), filepath.Ext(src.Run))}
	var missing int

	for _, qid := range order {
		query, ok := topics[qid]
		if !ok {
			return nil, apperr.NewValidationf("run query %q has no topic", qid)
		}

		entries := runs[qid]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].rank != entries[j].rank {
				return entries[i].rank < entries[j].rank
			}
			return entries[i].score > entries[j].score
		})
		if src.Depth > 0 && len(entries) > src.Depth {
			entries = entries[:src.Depth]
		}

		ex := domain.RelevanceExample{
			ID:        qid,
			Query:     query,
			Documents: make([]domain.Document, len(entries)),
			Labels:    make([]int, len(entries)),
		}
		for i, e := range entries {
			doc, ok := corpus[e.docID]
			if !ok {
				missing++
				doc = domain.Document{ID: e.docID}
			}
			ex.Documents[i] = doc
			if qrels[qid][e.docID] > 0 {
				ex.Labels[i] = 1
			}
		}
		ds.Examples = append(ds.Examples, ex)
	}

	if missing > 0 {
		slog.Warn("run candidates missing from corpus", "count", missing)
	}
	slog.Info("loaded TREC dataset", "name", ds.Name, "queries", len(ds.Examples))
	return ds, nil
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return parse(f)
}

// parseRun reads "qid Q0 docid rank score tag" lines.
func parseRun(r io.Reader) ([]string, map[string][]runEntry, error) {
	var order []string
	runs := make(map[string][]runEntry)

	err := scanLines(r, func(lineNo int, line string) error {
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return fmt.Errorf("line %d: want 6 fields, got %d", lineNo, len(fields))
		}
		rank, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("line %d: rank: %w", lineNo, err)
		}
		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return fmt.Errorf("line %d: score: %w", lineNo, err)
		}

		qid := fields[0]
		if _, ok := runs[qid]; !ok {
			order = append(order, qid)
		}
		runs[qid] = append(runs[qid], runEntry{docID: fields[2], rank: rank, score: score})
		return nil
	})
	return order, runs, err
}

// parseQrels reads "qid iteration docid grade" lines.
func parseQrels(r io.Reader) (map[string]map[string]int, error) {
	qrels := make(map[string]map[string]int)

	err := scanLines(r, func(lineNo int, line string) error {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return fmt.Errorf("line %d: want 4 fields, got %d", lineNo, len(fields))
		}
		grade, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("line %d: grade: %w", lineNo, err)
		}
		if qrels[fields[0]] == nil {
			qrels[fields[0]] = make(map[string]int)
		}
		qrels[fields[0]][fields[2]] = grade
		return nil
	})
	return qrels, err
}

func parseTopics(r io.Reader) (map[string]string, error) {
	topics := make(map[string]string)

	err := scanLines(r, func(lineNo int, line string) error {
		qid, query, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("line %d: want qid<TAB>query", lineNo)
		}
		topics[strings.TrimSpace(qid)] = strings.TrimSpace(query)
		return nil
	})
	return topics, err
}

func parseCorpus(r io.Reader) (map[string]domain.Document, error) {
	corpus := make(map[string]domain.Document)

	err := scanLines(r, func(lineNo int, line string) error {
		var d domain.Document
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if d.ID == "" {
			return fmt.Errorf("line %d: document has no id", lineNo)
		}
		corpus[d.ID] = d
		return nil
	})
	return corpus, err
}

// scanLines calls fn for every non-blank line, numbering lines from 1.
func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
