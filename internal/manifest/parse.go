package manifest

import (
	"encoding/json"
)

// rawAssuranceReport mirrors AssuranceReport but with untyped fields so
// presence and type can be checked explicitly before coercing into the
// typed struct.
type rawAssuranceReport struct {
	Verdict           *string  `json:"verdict"`
	BlockingIssues    []string `json:"blocking_issues"`
	NonBlockingIssues []string `json:"non_blocking_issues"`
	ReleaseReady      *bool    `json:"release_ready"`
}

// ParseDevAssuranceReport validates raw as a develop-stage assurance
// artifact: verdict must be "pass" or "fail"; blocking_issues and
// non_blocking_issues must be present (possibly empty) arrays.
func ParseDevAssuranceReport(raw []byte) (*AssuranceReport, error) {
	var doc rawAssuranceReport
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, newValidationError("assurance-report", "malformed JSON: %v", err)
	}
	if doc.Verdict == nil {
		return nil, newValidationError("assurance-report", "missing required field \"verdict\"")
	}
	verdict := Verdict(*doc.Verdict)
	if verdict != VerdictPass && verdict != VerdictFail {
		return nil, newValidationError("assurance-report", "verdict must be \"pass\" or \"fail\", got %q", *doc.Verdict)
	}
	if doc.BlockingIssues == nil {
		return nil, newValidationError("assurance-report", "missing required field \"blocking_issues\"")
	}
	if doc.NonBlockingIssues == nil {
		return nil, newValidationError("assurance-report", "missing required field \"non_blocking_issues\"")
	}
	return &AssuranceReport{
		Verdict:           verdict,
		BlockingIssues:    doc.BlockingIssues,
		NonBlockingIssues: doc.NonBlockingIssues,
		ReleaseReady:      doc.ReleaseReady,
	}, nil
}

// rawReleaseReviewReport mirrors ReleaseReviewReport with an untyped
// release_ready so its absence can be distinguished from false.
type rawReleaseReviewReport struct {
	ReleaseReady      *bool    `json:"release_ready"`
	BlockingIssues    []string `json:"blocking_issues"`
	NonBlockingIssues []string `json:"non_blocking_issues"`
}

// ParseReleaseReviewReport validates raw as review.json: release_ready must
// be a present boolean; blocking_issues and non_blocking_issues must be
// present (possibly empty) arrays.
func ParseReleaseReviewReport(raw []byte) (*ReleaseReviewReport, error) {
	var doc rawReleaseReviewReport
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, newValidationError("release-review-report", "malformed JSON: %v", err)
	}
	if doc.ReleaseReady == nil {
		return nil, newValidationError("release-review-report", "missing required field \"release_ready\"")
	}
	if doc.BlockingIssues == nil {
		return nil, newValidationError("release-review-report", "missing required field \"blocking_issues\"")
	}
	if doc.NonBlockingIssues == nil {
		return nil, newValidationError("release-review-report", "missing required field \"non_blocking_issues\"")
	}
	return &ReleaseReviewReport{
		ReleaseReady:      *doc.ReleaseReady,
		BlockingIssues:    doc.BlockingIssues,
		NonBlockingIssues: doc.NonBlockingIssues,
	}, nil
}

// ParseIntegrateResult validates raw as integrate.json: status must be
// present.
func ParseIntegrateResult(raw []byte) (*IntegrateResult, error) {
	var result IntegrateResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, newValidationError("integrate-result", "malformed JSON: %v", err)
	}
	if result.Status == "" {
		return nil, newValidationError("integrate-result", "missing required field \"status\"")
	}
	return &result, nil
}
