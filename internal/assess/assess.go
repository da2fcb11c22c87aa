// Package assess asks a vision model to grade the damage visible in an
// inspection photo. The answer is a suggestion only; the inspector decides
// what severity to record.
package assess

import (
	"context"
	"fmt"
	"io"

	"github.com/vbonduro/depositdefender/internal/domain"
)

// promptTemplate is shared by all backends. %s is the checklist item label.
const promptTemplate = `You are helping a tenant document a rental unit at move-out.
This photo shows the checklist item "%s". Judge any damage beyond normal wear
and tear. Respond with exactly one line in plain text,
format: severity | notes
where severity is one of none, minor, moderate, severe and notes is a short
description of what you see.`

// Prompt returns the assessment prompt for itemLabel.
func Prompt(itemLabel string) string {
	return fmt.Sprintf(promptTemplate, itemLabel)
}

type Assessor interface {
	Assess(ctx context.Context, r io.Reader, mimeType, itemLabel string) (*Assessment, error)
}

type Assessment struct {
	Severity domain.Severity `json:"severity"`
	Notes    string          `json:"notes"`
	Raw      string          `json:"raw"`
}
