package branches

import (
	"fmt"
	"io"
)

const (
	missingBranchMessageTemplateConstant = "Can't find %s (%s)"
	reportWriteErrorTemplateConstant     = "unable to write branch %s: %w"
)

// Reporter prints matched branch names and routes misses to the diagnostic sink.
type Reporter struct {
	output      io.Writer
	diagnostics DiagnosticSink
}

// NewReporter constructs a Reporter. A nil sink discards misses.
func NewReporter(output io.Writer, diagnostics DiagnosticSink) (*Reporter, error) {
	if output == nil {
		return nil, ErrOutputNotConfigured
	}
	if diagnostics == nil {
		diagnostics = NopDiagnosticSink{}
	}
	return &Reporter{output: output, diagnostics: diagnostics}, nil
}

// Report writes one line per matched branch in result order.
func (reporter *Reporter) Report(results []MatchResult) error {
	for _, result := range results {
		if !result.Found {
			reporter.diagnostics.Notice(fmt.Sprintf(missingBranchMessageTemplateConstant, result.Local.Name, result.Local.CommitIdentity))
			continue
		}
		if _, writeError := fmt.Fprintln(reporter.output, result.Local.Name); writeError != nil {
			return fmt.Errorf(reportWriteErrorTemplateConstant, result.Local.Name, writeError)
		}
	}
	return nil
}
