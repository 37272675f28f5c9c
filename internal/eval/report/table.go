package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteMetrics prints one "name<TAB>value" line per metric, the plain
// format scripts consume.
func WriteMetrics(r *Report, w io.Writer) error {
	for _, m := range r.Metrics {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", m.Name, fmtValue(m.Value)); err != nil {
			return err
		}
	}
	return nil
}

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Reranker Evaluation ===\n\n")
	fmt.Fprintf(tw, "Run:\t%s\n", r.Meta.RunID)
	fmt.Fprintf(tw, "Method:\t%s\n", r.Meta.Method)
	if r.Meta.Dataset.Name != "" {
		fmt.Fprintf(tw, "Dataset:\t%s (%d queries)\n", r.Meta.Dataset.Name, r.Meta.Dataset.Queries)
	}
	fmt.Fprintln(tw)

	writeRow(tw, "Metric", "Value", "Queries")
	writeSep(tw, 3)
	for _, m := range r.Metrics {
		writeRow(tw, m.Name, fmtValue(m.Value), fmt.Sprintf("%d", m.Queries))
	}
	fmt.Fprintln(tw)

	if len(r.Latency) > 0 {
		fmt.Fprintf(tw, "Reranker Latency\n\n")
		writeRow(tw, "Reranker", "Min", "p50", "p95", "p99", "Max", "Mean", "Calls")
		writeSep(tw, 8)
		for _, l := range r.Latency {
			s := l.Stats
			writeRow(tw,
				l.Reranker,
				fmtDuration(s.Min),
				fmtDuration(s.P50()),
				fmtDuration(s.P95()),
				fmtDuration(s.P99()),
				fmtDuration(s.Max),
				fmtDuration(s.Mean),
				fmt.Sprintf("%d", s.SampleCount),
			)
		}
		fmt.Fprintln(tw)
	}

	tw.Flush()
}

func writeRow(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func writeSep(tw *tabwriter.Writer, n int) {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(tw, sep...)
}

func fmtValue(v *float64) string {
	if v == nil {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", *v)
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
